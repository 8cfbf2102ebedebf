package fractal

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

// absolute tolerance, mgl32 ApproxEqualThreshold turns relative near zero
func vecNear(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < eps
}

func quatNear(a, b mgl32.Quat) bool {
	return float32(math.Abs(float64(a.W-b.W))) < eps && vecNear(a.V, b.V)
}

var countTests = []struct {
	level int
	count int
}{
	{0, 1},
	{1, 5},
	{2, 25},
	{3, 125},
	{7, 78125},
}

func TestCount(t *testing.T) {
	for _, test := range countTests {
		if result := Count(test.level); result != test.count {
			t.Errorf("Count(%d)=%d; expected %d", test.level, result, test.count)
		}
	}
}

func TestTotalParts(t *testing.T) {
	for depth := 1; depth <= 8; depth++ {
		sum := 0
		for l := 0; l < depth; l++ {
			sum += Count(l)
		}
		pow := int(math.Pow(5, float64(depth)))
		if result := TotalParts(depth); result != sum || result != (pow-1)/4 {
			t.Errorf("TotalParts(%d)=%d; expected %d", depth, result, sum)
		}
	}
}

func TestBuildRejectsBadOptions(t *testing.T) {
	nan := float32(math.NaN())
	for _, opts := range []Options{
		{Depth: 0, SpacingFactor: 1.5, ScaleStep: 0.5},
		{Depth: -3, SpacingFactor: 1.5, ScaleStep: 0.5},
		{Depth: 2, SpacingFactor: 0, ScaleStep: 0.5},
		{Depth: 2, SpacingFactor: -1, ScaleStep: 0.5},
		{Depth: 2, SpacingFactor: 1.5, ScaleStep: 0},
		{Depth: 2, SpacingFactor: nan, ScaleStep: 0.5},
		{Depth: 2, SpacingFactor: 1.5, ScaleStep: 0.5, Origin: mgl32.Vec3{nan, 0, 0}},
	} {
		f, err := Build(opts)
		if err == nil {
			t.Errorf("Build(%+v) succeeded", opts)
			continue
		}
		if !IsInvalidArgument(err) {
			t.Errorf("Build(%+v) error %v is not invalid argument", opts, err)
		}
		if f != nil {
			t.Errorf("Build(%+v) returned fractal with error", opts)
		}
	}
}

func TestBuildStructure(t *testing.T) {
	f, err := BuildDepth(4)
	if err != nil {
		t.Fatal(err)
	}
	if f.Depth() != 4 || f.Len() != 156 {
		t.Fatalf("depth %d len %d; expected 4 156", f.Depth(), f.Len())
	}

	root := f.Levels[0][0]
	if root.Direction != Up || root.BaseRotation != mgl32.QuatIdent() || root.Scale != 1 {
		t.Errorf("bad root %+v", root)
	}

	f.Walk(func(level, index int, p *Part) {
		if len(f.Levels[level]) != Count(level) {
			t.Fatalf("level %d has %d parts", level, len(f.Levels[level]))
		}
		if p.ChildIndex < 0 || p.ChildIndex >= Branching {
			t.Errorf("L%d #%d child index %d", level, index, p.ChildIndex)
		}
		if level > 0 && p.ChildIndex != index%Branching {
			t.Errorf("L%d #%d child index %d", level, index, p.ChildIndex)
		}
		o := OrientationFor(p.ChildIndex)
		if p.Direction != o.Direction || p.BaseRotation != o.Rotation {
			t.Errorf("L%d #%d orientation mismatch", level, index)
		}
		if p.LocalRotation != p.BaseRotation {
			t.Errorf("L%d #%d local rotation not initialized from base", level, index)
		}
		if expected := float32(math.Pow(0.5, float64(level))); p.Scale != expected {
			t.Errorf("L%d scale %v; expected %v", level, p.Scale, expected)
		}
	})
}

func TestOrientationTable(t *testing.T) {
	if o := OrientationFor(0); o.Direction != (mgl32.Vec3{0, 1, 0}) || o.Rotation != mgl32.QuatIdent() {
		t.Errorf("child 0 is %+v; expected up/identity", o)
	}

	expected := []mgl32.Quat{
		mgl32.QuatIdent(),
		mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{0, 0, 1}),
		mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}),
		mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{1, 0, 0}),
	}
	for ci, q := range expected {
		o := OrientationFor(ci)
		if !quatNear(o.Rotation, q) {
			t.Errorf("rotation %d = %v; expected %v", ci, o.Rotation, q)
		}
		// base rotation turns the local up axis into the offset direction
		if up := o.Rotation.Rotate(Up); !vecNear(up, o.Direction) {
			t.Errorf("rotation %d maps up to %v; expected %v", ci, up, o.Direction)
		}
	}
}

func TestParentAndLabel(t *testing.T) {
	f, err := BuildDepth(3)
	if err != nil {
		t.Fatal(err)
	}

	if p, err := f.Parent(0, 0); err != nil || p != nil {
		t.Errorf("Parent(0,0)=%v,%v; expected nil,nil", p, err)
	}
	p, err := f.Parent(2, 13)
	if err != nil {
		t.Fatal(err)
	}
	if p != &f.Levels[1][2] {
		t.Errorf("Parent(2,13) is not part 2 on level 1")
	}
	if _, err := f.Part(3, 0); !IsInvalidArgument(err) {
		t.Errorf("Part(3,0) error %v", err)
	}
	if _, err := f.Part(1, 5); !IsInvalidArgument(err) {
		t.Errorf("Part(1,5) error %v", err)
	}

	if l := PartName(2, 3); l != "Fractal Part L2 C3" {
		t.Errorf("PartName(2,3)=%q", l)
	}
}

func TestRebuildIsIndependent(t *testing.T) {
	a, err := BuildDepth(3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildDepth(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Tick(1, DEFAULT_SPIN); err != nil {
		t.Fatal(err)
	}

	for li := range b.Levels {
		if len(a.Levels[li]) != len(b.Levels[li]) {
			t.Fatalf("level %d sizes differ", li)
		}
		for i := range b.Levels[li] {
			pa, pb := a.Levels[li][i], b.Levels[li][i]
			if pa.Direction != pb.Direction || pa.BaseRotation != pb.BaseRotation || pa.Scale != pb.Scale {
				t.Errorf("L%d #%d structure differs", li, i)
			}
			if pb.LocalRotation != pb.BaseRotation {
				t.Errorf("L%d #%d of second tree was touched by first tree tick", li, i)
			}
		}
	}
}

func TestTransforms(t *testing.T) {
	f, err := BuildDepth(3)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]Transform, 0, 64)
	out := f.Transforms(buf)
	if len(out) != 31 {
		t.Fatalf("got %d transforms; expected 31", len(out))
	}
	if &out[0] != &buf[:1][0] {
		t.Errorf("Transforms did not reuse buffer")
	}
	if out[6] != f.Levels[2][0].Transform() {
		t.Errorf("transform 6 is not first part of level 2")
	}
}
