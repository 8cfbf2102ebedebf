package termview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation, degrees
	Yaw      float32 // y rotation, degrees
	Fov      float32 // vertical, degrees
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
		Fov:      45,
	}
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(pitch)*math.Sin(yaw)),
		c.Distance * float32(math.Sin(pitch)),
		c.Distance * float32(math.Cos(pitch)*math.Cos(yaw)),
	}.Add(c.Target)
}

func (c *OrbitController) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Orbit turns the camera around the target, pitch stays short of the poles.
func (c *OrbitController) Orbit(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -85, 85)
}

func (c *OrbitController) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, 0.5, 500)
}
