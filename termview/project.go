package termview

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/fractal_browser/animator"
)

const (
	zNear = 0.1
	zFar  = 1000

	// terminal cells are about twice as tall as wide
	cellAspect = 2
)

var levelGlyphs = []rune{'@', 'O', 'o', '*', '+', '.'}

func Glyph(level int) rune {
	if level >= len(levelGlyphs) {
		return levelGlyphs[len(levelGlyphs)-1]
	}
	return levelGlyphs[level]
}

type Cell struct {
	X, Y  int
	Level int
	Depth float32
	Rune  rune
}

// Project maps part positions to terminal cells, far cells first so near
// ones overwrite them when drawn in order. Parts behind the camera or
// outside of the screen are skipped.
func Project(fr *animator.Frame, width, height int, cam *OrbitController) []Cell {
	if width <= 0 || height <= 0 || fr == nil {
		return nil
	}

	aspect := float32(width) / float32(height*cellAspect)
	mvp := mgl32.Perspective(mgl32.DegToRad(cam.Fov), aspect, zNear, zFar).Mul4(cam.GetViewMatrix())

	cells := make([]Cell, 0, len(fr.Transforms))
	i := 0
	for level, count := range fr.Counts {
		for end := i + count; i < end && i < len(fr.Transforms); i++ {
			clip := mvp.Mul4x1(fr.Transforms[i].Position.Vec4(1))
			w := clip.W()
			if w <= zNear {
				continue
			}
			ndc := clip.Vec3().Mul(1 / w)
			if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 {
				continue
			}

			x := int((ndc.X() + 1) / 2 * float32(width))
			y := int((1 - ndc.Y()) / 2 * float32(height))
			if x >= width {
				x = width - 1
			}
			if y >= height {
				y = height - 1
			}
			cells = append(cells, Cell{X: x, Y: y, Level: level, Depth: w, Rune: Glyph(level)})
		}
	}

	sort.SliceStable(cells, func(a, b int) bool {
		return cells[a].Depth > cells[b].Depth
	})
	return cells
}
