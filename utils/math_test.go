package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var eulerTests = []struct {
	axis  mgl32.Vec3
	angle float32
	euler mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, 0, mgl32.Vec3{0, 0, 0}},
	{mgl32.Vec3{1, 0, 0}, 0.3, mgl32.Vec3{0.3, 0, 0}},
	{mgl32.Vec3{0, 1, 0}, -1.1, mgl32.Vec3{0, -1.1, 0}},
	{mgl32.Vec3{0, 0, 1}, 2.5, mgl32.Vec3{0, 0, 2.5}},
}

func TestQuatToEuler(t *testing.T) {
	for _, test := range eulerTests {
		q := mgl32.QuatRotate(test.angle, test.axis)
		if result := QuatToEuler(q); result.Sub(test.euler).Len() > 1e-4 {
			t.Errorf("QuatToEuler(%v)=%v; expected %v", q, result, test.euler)
		}
	}
}

func TestQuatToEulerDegrees(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(-90), mgl32.Vec3{0, 0, 1})
	if result := QuatToEulerDegrees(q); result.Sub(mgl32.Vec3{0, 0, -90}).Len() > 1e-3 {
		t.Errorf("QuatToEulerDegrees(%v)=%v; expected (0, 0, -90)", q, result)
	}
}

func TestFormatCount(t *testing.T) {
	for n, expected := range map[int]string{0: "0", 31: "31", 97656: "97,656", 488281: "488,281"} {
		if result := FormatCount(n); result != expected {
			t.Errorf("FormatCount(%d)=%q; expected %q", n, result, expected)
		}
	}
}

func TestRandomNameUnique(t *testing.T) {
	rng := NewRandomNameGenerator(0)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := rng.RandomName()
		if name == "" || seen[name] {
			t.Fatalf("name %q repeated or empty", name)
		}
		seen[name] = true
	}
}
