package fractal

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// levels smaller than this are not worth splitting between goroutines
const minPartsPerWorker = 256

// SpinDelta is the rotation every part applies about its own up axis in one tick.
func SpinDelta(deltaTime, spinDegreesPerSecond float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(spinDegreesPerSecond*deltaTime), Up)
}

func (f *Fractal) checkTick(deltaTime, spinDegreesPerSecond float32) error {
	if f == nil || len(f.Levels) == 0 || len(f.Levels[0]) == 0 {
		return errors.Wrapf(ErrInvalidState, "tick on unbuilt fractal")
	}
	if !isFinite(deltaTime) {
		return errors.Wrapf(ErrInvalidArgument, "delta time %v", deltaTime)
	}
	if !isFinite(spinDegreesPerSecond) {
		return errors.Wrapf(ErrInvalidArgument, "spin %v", spinDegreesPerSecond)
	}
	return nil
}

// Tick advances every part by deltaTime seconds. Levels go strictly in
// increasing order so a part always reads its parent's transform of this tick.
func (f *Fractal) Tick(deltaTime, spinDegreesPerSecond float32) error {
	if err := f.checkTick(deltaTime, spinDegreesPerSecond); err != nil {
		return err
	}

	spin := SpinDelta(deltaTime, spinDegreesPerSecond)
	f.propagateRoot(spin)
	for li := 1; li < len(f.Levels); li++ {
		f.propagateLevel(li, 0, len(f.Levels[li]), spin)
	}
	return nil
}

// TickParallel gives the same result as Tick. Parts of one level are split
// between workers, the next level starts only after all of them are done.
func (f *Fractal) TickParallel(deltaTime, spinDegreesPerSecond float32, workers int) error {
	if workers <= 1 {
		return f.Tick(deltaTime, spinDegreesPerSecond)
	}
	if err := f.checkTick(deltaTime, spinDegreesPerSecond); err != nil {
		return err
	}

	spin := SpinDelta(deltaTime, spinDegreesPerSecond)
	f.propagateRoot(spin)

	var wg sync.WaitGroup
	for li := 1; li < len(f.Levels); li++ {
		n := len(f.Levels[li])
		if n < minPartsPerWorker*2 {
			f.propagateLevel(li, 0, n, spin)
			continue
		}

		chunk := (n + workers - 1) / workers
		if chunk < minPartsPerWorker {
			chunk = minPartsPerWorker
		}
		for from := 0; from < n; from += chunk {
			to := from + chunk
			if to > n {
				to = n
			}
			wg.Add(1)
			go func(li, from, to int) {
				defer wg.Done()
				f.propagateLevel(li, from, to, spin)
			}(li, from, to)
		}
		wg.Wait()
	}
	return nil
}

func (f *Fractal) propagateRoot(spin mgl32.Quat) {
	root := &f.Levels[0][0]
	root.LocalRotation = root.LocalRotation.Mul(spin)
	root.WorldRotation = root.LocalRotation
	root.WorldPosition = f.opts.Origin
}

// propagateLevel updates parts [from, to) of level li, level li-1 must be done.
func (f *Fractal) propagateLevel(li, from, to int, spin mgl32.Quat) {
	parentParts := f.Levels[li-1]
	levelParts := f.Levels[li]
	spacing := f.opts.SpacingFactor

	for fpi := from; fpi < to; fpi++ {
		parent := &parentParts[ParentIndex(fpi)]
		part := &levelParts[fpi]

		// spin is the rightmost operand: every part turns about its own up axis
		part.LocalRotation = part.LocalRotation.Mul(spin)
		part.WorldRotation = parent.WorldRotation.Mul(part.LocalRotation)
		part.WorldPosition = parent.WorldPosition.Add(
			parent.WorldRotation.Rotate(part.Direction.Mul(spacing * part.Scale)))
	}
}
