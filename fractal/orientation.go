package fractal

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const halfSqrt2 = float32(math.Sqrt2 / 2)

type Orientation struct {
	Direction mgl32.Vec3
	Rotation  mgl32.Quat
}

// orientations is indexed by child index. Entry 0 continues the trunk,
// entries 1-4 are the lateral branches.
var orientations = [...]Orientation{
	{Direction: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.Quat{W: 1}},
	{Direction: mgl32.Vec3{1, 0, 0}, Rotation: mgl32.Quat{W: halfSqrt2, V: mgl32.Vec3{0, 0, -halfSqrt2}}},
	{Direction: mgl32.Vec3{-1, 0, 0}, Rotation: mgl32.Quat{W: halfSqrt2, V: mgl32.Vec3{0, 0, halfSqrt2}}},
	{Direction: mgl32.Vec3{0, 0, 1}, Rotation: mgl32.Quat{W: halfSqrt2, V: mgl32.Vec3{halfSqrt2, 0, 0}}},
	{Direction: mgl32.Vec3{0, 0, -1}, Rotation: mgl32.Quat{W: halfSqrt2, V: mgl32.Vec3{-halfSqrt2, 0, 0}}},
}

// Branching is the number of children every non-leaf part has.
const Branching = len(orientations)

var Up = orientations[0].Direction

func OrientationFor(childIndex int) Orientation {
	return orientations[childIndex]
}

func ParentIndex(i int) int  { return i / Branching }
func ChildIndexOf(i int) int { return i % Branching }

// Count returns the number of parts on the level.
func Count(level int) int {
	n := 1
	for ; level > 0; level-- {
		n *= Branching
	}
	return n
}

// TotalParts returns the number of parts in a tree of given depth.
func TotalParts(depth int) int {
	if depth < 1 {
		return 0
	}
	return (Count(depth) - 1) / (Branching - 1)
}

func Label(level, childIndex int) string {
	return fmt.Sprintf("L%d C%d", level, childIndex)
}

func PartName(level, childIndex int) string {
	return "Fractal Part " + Label(level, childIndex)
}
