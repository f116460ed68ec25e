package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("New", t, func() {
		Convey("Rejects unknown levels", func() {
			_, err := New("loud", "")
			So(err, ShouldNotBeNil)
		})

		Convey("Writes JSON lines to a file, creating its directory", func() {
			path := filepath.Join(t.TempDir(), "logs", "couchosd.log")
			logger, err := New("info", path)
			So(err, ShouldBeNil)

			logger.Debug("hidden")
			logger.Info("shown")
			_ = logger.Sync()

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"msg":"shown"`)
			So(strings.Contains(string(data), "hidden"), ShouldBeFalse)
		})

		Convey("OrNop never returns nil", func() {
			So(OrNop(nil), ShouldNotBeNil)
		})
	})
}
