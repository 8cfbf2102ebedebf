package termview

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/fractal_browser/animator"
	"github.com/mogaika/fractal_browser/utils"
)

const (
	hudRows = 1
	maxFps  = 240
)

var levelColors = []tcell.Color{
	tcell.NewRGBColor(255, 220, 120),
	tcell.NewRGBColor(255, 160, 80),
	tcell.NewRGBColor(220, 90, 90),
	tcell.NewRGBColor(170, 80, 200),
	tcell.NewRGBColor(90, 110, 230),
	tcell.NewRGBColor(70, 190, 220),
	tcell.NewRGBColor(90, 220, 140),
	tcell.NewRGBColor(150, 150, 150),
}

func levelStyle(level int) tcell.Style {
	if level >= len(levelColors) {
		level = len(levelColors) - 1
	}
	return tcell.StyleDefault.Foreground(levelColors[level])
}

type Viewer struct {
	Screen   tcell.Screen
	Animator *animator.Animator
	Camera   *OrbitController
}

func NewViewer(screen tcell.Screen, a *animator.Animator) *Viewer {
	return &Viewer{
		Screen:   screen,
		Animator: a,
		Camera:   NewOrbitController(mgl32.Vec3{0, 0.75, 0}, 6, 20, 30),
	}
}

func (v *Viewer) Draw() {
	v.Screen.Clear()
	width, height := v.Screen.Size()

	fr := v.Animator.Frame()
	for _, c := range Project(fr, width, height-hudRows, v.Camera) {
		v.Screen.SetContent(c.X, c.Y+hudRows, c.Rune, nil, levelStyle(c.Level))
	}

	state := "running"
	if v.Animator.Paused() {
		state = "paused"
	}
	hud := fmt.Sprintf("depth %d  parts %s  frame %d  %s  [space] pause [+/-] depth [arrows] orbit [q] quit",
		fr.Depth, utils.FormatCount(len(fr.Transforms)), fr.Number, state)
	for i, r := range hud {
		if i >= width {
			break
		}
		v.Screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}

	v.Screen.Show()
}

// HandleEvent returns false when the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.Camera.Orbit(-10, 0)
		case tcell.KeyRight:
			v.Camera.Orbit(10, 0)
		case tcell.KeyUp:
			v.Camera.Orbit(0, 5)
		case tcell.KeyDown:
			v.Camera.Orbit(0, -5)
		case tcell.KeyPgUp:
			v.Camera.Zoom(0.9)
		case tcell.KeyPgDn:
			v.Camera.Zoom(1.1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				if v.Animator.Paused() {
					v.Animator.Resume()
				} else {
					v.Animator.Pause()
				}
			case '+', '=':
				v.rebuild(v.Animator.Frame().Depth + 1)
			case '-':
				if depth := v.Animator.Frame().Depth; depth > 1 {
					v.rebuild(depth - 1)
				}
			}
		}
	case *tcell.EventResize:
		v.Screen.Sync()
	}
	return true
}

func (v *Viewer) rebuild(depth int) {
	if err := v.Animator.Rebuild(depth); err != nil {
		log.Printf("[termview] rebuild: %v", err)
	}
}

// Run redraws at fps until ctx is done or the user quits. The animator is
// ticked elsewhere.
func (v *Viewer) Run(ctx context.Context, fps int) {
	if fps < 1 {
		fps = 1
	} else if fps > maxFps {
		fps = maxFps
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := v.Screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.Draw()
		}
	}
}
