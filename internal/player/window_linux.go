//go:build linux

package player

/*
#cgo LDFLAGS: -lX11
#include <X11/Xlib.h>

static long focused_x11_window(void) {
    Display *d = XOpenDisplay(NULL);
    if (!d) return 0;
    Window w;
    int revert;
    XGetInputFocus(d, &w, &revert);
    XCloseDisplay(d);
    if (w == PointerRoot || w == None) return 0;
    return (long)w;
}
*/
import "C"

// FocusedWindow returns the X11 id of the focused window, for mpv's wid option. It must
// be called while the host window has focus, i.e. right after it opens.
func FocusedWindow() (int64, error) {
	if wid := int64(C.focused_x11_window()); wid != 0 {
		return wid, nil
	}
	return 0, ErrNoWindow
}
