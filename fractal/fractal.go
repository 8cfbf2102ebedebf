package fractal

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	DEFAULT_SPACING    = 1.5
	DEFAULT_SCALE_STEP = 0.5
	DEFAULT_SPIN       = 22.5
)

type Part struct {
	ChildIndex   int
	Direction    mgl32.Vec3
	BaseRotation mgl32.Quat
	Scale        float32

	LocalRotation mgl32.Quat
	WorldRotation mgl32.Quat
	WorldPosition mgl32.Vec3
}

func (p *Part) Transform() Transform {
	return Transform{
		Position: p.WorldPosition,
		Rotation: p.WorldRotation,
		Scale:    p.Scale,
	}
}

type Level []Part

// Transform is what a renderer needs to draw one part.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32
}

type Options struct {
	Depth         int
	SpacingFactor float32
	ScaleStep     float32
	Origin        mgl32.Vec3
}

func DefaultOptions(depth int) Options {
	return Options{
		Depth:         depth,
		SpacingFactor: DEFAULT_SPACING,
		ScaleStep:     DEFAULT_SCALE_STEP,
	}
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

func (o Options) Validate() error {
	if o.Depth < 1 {
		return errors.Wrapf(ErrInvalidArgument, "depth %d must be at least 1", o.Depth)
	}
	if !isFinite(o.SpacingFactor) || o.SpacingFactor <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "spacing factor %v must be positive", o.SpacingFactor)
	}
	if !isFinite(o.ScaleStep) || o.ScaleStep <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "scale step %v must be positive", o.ScaleStep)
	}
	for _, c := range o.Origin {
		if !isFinite(c) {
			return errors.Wrapf(ErrInvalidArgument, "origin %v is not finite", o.Origin)
		}
	}
	return nil
}

type Fractal struct {
	Levels []Level

	opts Options
}

func BuildDepth(depth int) (*Fractal, error) {
	return Build(DefaultOptions(depth))
}

// Build allocates every level at once. Parents are never stored, a part at
// index i on level l belongs to part i/Branching on level l-1.
func Build(opts Options) (*Fractal, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f := &Fractal{
		Levels: make([]Level, opts.Depth),
		opts:   opts,
	}

	length := 1
	for li := range f.Levels {
		f.Levels[li] = make(Level, length)
		length *= Branching
	}

	root := &f.Levels[0][0]
	root.Direction = Up
	root.BaseRotation = mgl32.QuatIdent()
	root.LocalRotation = root.BaseRotation
	root.WorldRotation = root.BaseRotation
	root.WorldPosition = opts.Origin
	root.Scale = 1

	scale := float32(1)
	for li := 1; li < len(f.Levels); li++ {
		scale *= opts.ScaleStep
		levelParts := f.Levels[li]
		for fpi := range levelParts {
			ci := ChildIndexOf(fpi)
			o := orientations[ci]
			levelParts[fpi] = Part{
				ChildIndex:    ci,
				Direction:     o.Direction,
				BaseRotation:  o.Rotation,
				LocalRotation: o.Rotation,
				Scale:         scale,
			}
		}
		f.propagateLevel(li, 0, len(levelParts), mgl32.QuatIdent())
	}

	log.Printf("[fractal] built depth %d: %d parts", opts.Depth, TotalParts(opts.Depth))
	return f, nil
}

func (f *Fractal) Options() Options { return f.opts }

func (f *Fractal) Depth() int {
	if f == nil {
		return 0
	}
	return len(f.Levels)
}

// Len returns the number of parts across all levels.
func (f *Fractal) Len() int {
	return TotalParts(f.Depth())
}

func (f *Fractal) inRange(level, index int) bool {
	return level >= 0 && level < f.Depth() && index >= 0 && index < len(f.Levels[level])
}

func (f *Fractal) Part(level, index int) (*Part, error) {
	if f == nil || len(f.Levels) == 0 {
		return nil, errors.Wrapf(ErrInvalidState, "fractal is not built")
	}
	if !f.inRange(level, index) {
		return nil, errors.Wrapf(ErrInvalidArgument, "no part %d on level %d", index, level)
	}
	return &f.Levels[level][index], nil
}

// Parent returns nil for the root.
func (f *Fractal) Parent(level, index int) (*Part, error) {
	if _, err := f.Part(level, index); err != nil {
		return nil, err
	}
	if level == 0 {
		return nil, nil
	}
	return &f.Levels[level-1][ParentIndex(index)], nil
}

func (f *Fractal) Walk(fn func(level, index int, p *Part)) {
	for li := range f.Levels {
		for i := range f.Levels[li] {
			fn(li, i, &f.Levels[li][i])
		}
	}
}

// Transforms appends every part's world transform to dst[:0] in level order.
func (f *Fractal) Transforms(dst []Transform) []Transform {
	dst = dst[:0]
	for li := range f.Levels {
		for i := range f.Levels[li] {
			dst = append(dst, f.Levels[li][i].Transform())
		}
	}
	return dst
}
