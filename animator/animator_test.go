package animator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mogaika/fractal_browser/config"
	"github.com/mogaika/fractal_browser/fractal"
)

func newAnimator(t *testing.T, depth int) *Animator {
	t.Helper()
	s := config.Default()
	s.Depth = depth
	a, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewInvalid(t *testing.T) {
	s := config.Default()
	s.Depth = 0
	if _, err := New(s); !fractal.IsInvalidArgument(err) {
		t.Errorf("New with depth 0 returned %v", err)
	}
}

func TestStepPublishesFrame(t *testing.T) {
	a := newAnimator(t, 3)

	first := a.Frame()
	if first == nil || first.Number != 0 || len(first.Transforms) != 31 {
		t.Fatalf("initial frame %+v", first)
	}

	var got []*Frame
	a.Subscribe(func(fr *Frame) { got = append(got, fr) })

	for i := 0; i < 3; i++ {
		if err := a.Step(0.25); err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != 3 {
		t.Fatalf("subscriber got %d frames; expected 3", len(got))
	}
	last := a.Frame()
	if last != got[2] || last.Number != 3 || last.Elapsed != 0.75 {
		t.Errorf("last frame %d elapsed %v", last.Number, last.Elapsed)
	}
	if first.Transforms[1] == last.Transforms[1] {
		t.Errorf("frame transforms did not move")
	}
	if want := []int{1, 5, 25}; len(last.Counts) != 3 || last.Counts[2] != want[2] {
		t.Errorf("counts %v; expected %v", last.Counts, want)
	}
}

func TestFrameIsCopy(t *testing.T) {
	a := newAnimator(t, 2)
	fr := a.Frame()
	before := fr.Transforms[3]
	if err := a.Step(1); err != nil {
		t.Fatal(err)
	}
	if fr.Transforms[3] != before {
		t.Errorf("published frame changed after a later tick")
	}
}

func TestRebuild(t *testing.T) {
	a := newAnimator(t, 3)
	a.Step(0.5)

	for _, depth := range []int{0, -1, config.MAX_DEPTH + 1, 99} {
		if err := a.Rebuild(depth); !fractal.IsInvalidArgument(err) {
			t.Errorf("Rebuild(%d) returned %v", depth, err)
		}
	}
	if a.Frame().Depth != 3 || a.Settings().Depth != 3 {
		t.Errorf("failed rebuild changed the tree")
	}
	// lock must be released after a failed rebuild
	if err := a.Step(0.1); err != nil {
		t.Errorf("Step after failed rebuild: %v", err)
	}

	if err := a.Rebuild(3); err != nil {
		t.Fatal(err)
	}
	fr := a.Frame()
	if fr.Depth != 3 || fr.Number != 0 || fr.Generation != 1 {
		t.Errorf("frame after rebuild %d/%d depth %d", fr.Generation, fr.Number, fr.Depth)
	}

	if err := a.Rebuild(5); err != nil {
		t.Fatal(err)
	}
	if fr := a.Frame(); fr.Depth != 5 || len(fr.Transforms) != 781 {
		t.Errorf("frame after rebuild has depth %d, %d transforms", fr.Depth, len(fr.Transforms))
	}
}

func TestPart(t *testing.T) {
	a := newAnimator(t, 3)
	p, err := a.Part(2, 9)
	if err != nil {
		t.Fatal(err)
	}
	if p.ChildIndex != 4 || p.Scale != 0.25 {
		t.Errorf("part 2/9 %+v", p)
	}
	if _, err := a.Part(3, 0); !fractal.IsInvalidArgument(err) {
		t.Errorf("Part(3,0) returned %v", err)
	}
}

func TestRunPauseResume(t *testing.T) {
	s := config.Default()
	s.Depth = 3
	s.FrameRate = 200
	a, err := New(s)
	if err != nil {
		t.Fatal(err)
	}

	ticked := make(chan struct{}, 1)
	a.Subscribe(func(*Frame) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Run(ctx)
	}()

	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("no tick in 5 seconds")
	}

	a.Pause()
	if !a.Paused() {
		t.Errorf("not paused")
	}
	a.Resume()

	cancel()
	wg.Wait()

	if fr := a.Frame(); fr.Number == 0 {
		t.Errorf("run did not advance frames")
	} else if fr.Elapsed > float32(fr.Number)*s.MaxDeltaTime+1e-3 {
		t.Errorf("elapsed %v exceeds clamp for %d frames", fr.Elapsed, fr.Number)
	}
}

func TestView(t *testing.T) {
	a := newAnimator(t, 2)
	var parts int
	if err := a.View(func(f *fractal.Fractal) error {
		parts = f.Len()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if parts != 6 {
		t.Errorf("View saw %d parts; expected 6", parts)
	}
}
