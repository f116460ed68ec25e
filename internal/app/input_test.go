package app

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchosd/internal/config"
)

func TestParseKey(t *testing.T) {
	Convey("Key names are case and space insensitive", t, func() {
		for name, want := range map[string]ebiten.Key{
			"Space": ebiten.KeySpace,
			" up ":  ebiten.KeyArrowUp,
			"F11":   ebiten.KeyF11,
			"q":     ebiten.KeyQ,
			"7":     ebiten.KeyDigit7,
		} {
			k, ok := parseKey(name)
			So(ok, ShouldBeTrue)
			So(k, ShouldEqual, want)
		}
		_, ok := parseKey("hyper")
		So(ok, ShouldBeFalse)
	})
}

func TestBindKeys(t *testing.T) {
	Convey("Given the default keybinds", t, func() {
		kb := config.DefaultConfig().Keybinds

		Convey("Every action is bound after the fixed keys", func() {
			b, err := bindKeys(kb)
			So(err, ShouldBeNil)
			So(b, ShouldHaveLength, 16)
			So(b[0], ShouldResemble, binding{ebiten.KeyEnter, ActionSelect})
			So(b, ShouldContain, binding{ebiten.KeySpace, ActionPlayPause})
			So(b, ShouldContain, binding{ebiten.KeyF, ActionFullscreen})
		})

		Convey("Empty entries stay unbound", func() {
			kb.Live = ""
			b, err := bindKeys(kb)
			So(err, ShouldBeNil)
			So(b, ShouldHaveLength, 15)
			So(b, ShouldNotContain, binding{ebiten.KeyL, ActionLive})
		})

		Convey("Unknown keys are reported by name", func() {
			kb.Next = "Hyper"
			_, err := bindKeys(kb)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `keybind next: unknown key "Hyper"`)
		})
	})
}

func TestIcons(t *testing.T) {
	Convey("The window icon is a play glyph on a tile", t, func() {
		icons := Icons()
		So(icons, ShouldHaveLength, 2)
		So(icons[0].Bounds().Dx(), ShouldEqual, 64)
		So(icons[1].Bounds().Dx(), ShouldEqual, 32)

		img := icon(64)
		So(img.RGBAAt(0, 0), ShouldResemble, iconBackground)
		So(img.RGBAAt(32, 10), ShouldResemble, iconTile)
		So(img.RGBAAt(30, 32), ShouldResemble, iconGlyph)
	})
}
