package animator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/fractal"
	"github.com/mogaika/fractal_browser/utils"
)

// Frame is an immutable copy of the tree state after one tick.
type Frame struct {
	Generation uint64
	Number     uint64
	Elapsed    float32
	Depth      int
	Counts     []int
	Transforms []fractal.Transform
}

func (fr *Frame) older(than *Frame) bool {
	if fr.Generation != than.Generation {
		return fr.Generation < than.Generation
	}
	return fr.Number < than.Number
}

// Animator is the only writer of its fractal. Readers get frames.
type Animator struct {
	settings config.Settings

	// tickLock serializes everything that touches f
	tickLock   sync.Mutex
	f          *fractal.Fractal
	generation uint64
	number     uint64
	elapsed    float32
	paused     bool

	frameLock   sync.RWMutex
	frame       *Frame
	subscribers []func(*Frame)
}

func New(settings config.Settings) (*Animator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	f, err := fractal.Build(settings.FractalOptions())
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to build fractal")
	}

	a := &Animator{settings: settings, f: f}
	a.publish()
	return a, nil
}

func (a *Animator) Settings() config.Settings {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	return a.settings
}

// Subscribe registers fn to be called after every tick with the new frame.
// fn runs on the ticking goroutine and must not block.
func (a *Animator) Subscribe(fn func(*Frame)) {
	a.frameLock.Lock()
	defer a.frameLock.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

func (a *Animator) Frame() *Frame {
	a.frameLock.RLock()
	defer a.frameLock.RUnlock()
	return a.frame
}

// Part returns a copy of one part's state.
func (a *Animator) Part(level, index int) (fractal.Part, error) {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	p, err := a.f.Part(level, index)
	if err != nil {
		return fractal.Part{}, err
	}
	return *p, nil
}

// View runs fn with the live tree while ticks are held off. fn must not
// modify the tree or keep references to it.
func (a *Animator) View(fn func(f *fractal.Fractal) error) error {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	return fn(a.f)
}

// Step advances the animation by dt seconds even when paused.
func (a *Animator) Step(dt float32) error {
	a.tickLock.Lock()
	number := a.number + 1
	err := a.f.TickParallel(dt, a.settings.Spin, a.settings.Workers)
	if err == nil {
		a.number = number
		a.elapsed += dt
	}
	a.tickLock.Unlock()

	if err != nil {
		return errors.Wrapf(err, "Tick %d failed", number)
	}
	a.publish()
	return nil
}

func (a *Animator) Pause() {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	a.paused = true
}

func (a *Animator) Resume() {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	a.paused = false
}

func (a *Animator) Paused() bool {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()
	return a.paused
}

// Rebuild replaces the tree with a fresh one of the given depth. On error the
// old tree stays untouched.
func (a *Animator) Rebuild(depth int) error {
	if err := a.rebuild(depth); err != nil {
		return err
	}
	log.Printf("[animator] rebuilt with depth %d (%s parts)", depth, utils.FormatCount(fractal.TotalParts(depth)))
	a.publish()
	return nil
}

func (a *Animator) rebuild(depth int) error {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()

	settings := a.settings
	settings.Depth = depth
	if err := settings.Validate(); err != nil {
		return err
	}
	f, err := fractal.Build(settings.FractalOptions())
	if err != nil {
		return err
	}

	a.settings = settings
	a.f = f
	a.generation++
	a.number = 0
	a.elapsed = 0
	return nil
}

// Run ticks at the configured frame rate until ctx is done.
func (a *Animator) Run(ctx context.Context) error {
	fps := a.Settings().FrameRate
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	log.Printf("[animator] running at %d fps", fps)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[animator] stopped after %d frames", a.Frame().Number)
			return ctx.Err()
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if a.Paused() {
				continue
			}
			if maxDt := a.Settings().MaxDeltaTime; dt > maxDt {
				dt = maxDt
			}
			if err := a.Step(dt); err != nil {
				return err
			}
		}
	}
}

func (a *Animator) snapshot() *Frame {
	a.tickLock.Lock()
	defer a.tickLock.Unlock()

	fr := &Frame{
		Generation: a.generation,
		Number:     a.number,
		Elapsed:    a.elapsed,
		Depth:      a.f.Depth(),
		Counts:     make([]int, a.f.Depth()),
		Transforms: a.f.Transforms(make([]fractal.Transform, 0, a.f.Len())),
	}
	for li := range a.f.Levels {
		fr.Counts[li] = len(a.f.Levels[li])
	}
	return fr
}

func (a *Animator) publish() {
	fr := a.snapshot()

	a.frameLock.Lock()
	// frames published out of order by concurrent Step callers are dropped
	if a.frame != nil && fr.older(a.frame) {
		a.frameLock.Unlock()
		return
	}
	a.frame = fr
	subscribers := a.subscribers
	a.frameLock.Unlock()

	for _, fn := range subscribers {
		fn(fr)
	}
}
