//go:build windows

package player

import "syscall"

var procForegroundWindow = syscall.NewLazyDLL("user32.dll").NewProc("GetForegroundWindow")

// FocusedWindow returns the HWND of the foreground window, for mpv's wid option.
func FocusedWindow() (int64, error) {
	hwnd, _, _ := procForegroundWindow.Call()
	if hwnd == 0 {
		return 0, ErrNoWindow
	}
	return int64(hwnd), nil
}
