package app

import (
	"image"
	"image/color"
)

var (
	iconBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xFF}
	iconTile       = color.RGBA{R: 0x00, G: 0xA4, B: 0xDC, A: 0xFF}
	iconGlyph      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Icons returns the window icon at 64 and 32 pixels: a play button on a rounded tile.
func Icons() []image.Image {
	return []image.Image{icon(64), icon(32)}
}

func icon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)
	r := s * 0.2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			switch {
			case inPlayGlyph(fx/s, fy/s):
				img.SetRGBA(x, y, iconGlyph)
			case inRoundedRect(fx, fy, s*0.06, s*0.88, r):
				img.SetRGBA(x, y, iconTile)
			default:
				img.SetRGBA(x, y, iconBackground)
			}
		}
	}
	return img
}

// inRoundedRect reports whether (x, y) lies in the square at off with side w and corner
// radius r.
func inRoundedRect(x, y, off, w, r float64) bool {
	if x < off || y < off || x > off+w || y > off+w {
		return false
	}
	cx := min(max(x, off+r), off+w-r)
	cy := min(max(y, off+r), off+w-r)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// inPlayGlyph tests the right-pointing triangle, in unit coordinates.
func inPlayGlyph(u, v float64) bool {
	const left, right, top, bottom = 0.36, 0.72, 0.28, 0.72
	if u < left || u > right {
		return false
	}
	half := (bottom - top) / 2 * (right - u) / (right - left)
	mid := (top + bottom) / 2
	return v >= mid-half && v <= mid+half
}
