package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
)

const (
	nearPlane = 0.05
	farPlane  = 100.0
)

// Camera is a fixed pinhole camera at the origin looking down -Z.
type Camera struct {
	width, height int
	view          mgl64.Mat4
	projection    mgl64.Mat4
}

// NewCamera returns a camera for a width x height viewport with the given
// vertical field of view in degrees.
func NewCamera(width, height int, fovDeg float64) *Camera {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	aspect := float64(width) / float64(height)
	return &Camera{
		width:      width,
		height:     height,
		view:       mgl64.LookAtV(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}),
		projection: mgl64.Perspective(mgl64.DegToRad(fovDeg), aspect, nearPlane, farPlane),
	}
}

// Size returns the viewport size in pixels.
func (c *Camera) Size() (int, int) { return c.width, c.height }

// Project maps a world point to screen pixels with a top-left origin.
// ok is false for points behind the near plane.
func (c *Camera) Project(world mgl64.Vec3) (p r2.Point, ok bool) {
	eye := c.view.Mul4x1(world.Vec4(1))
	if -eye.Z() < nearPlane {
		return r2.Point{}, false
	}
	win := mgl64.Project(world, c.view, c.projection, 0, 0, c.width, c.height)
	return r2.Point{X: win.X(), Y: float64(c.height) - win.Y()}, true
}

// Ray returns the world-space ray through screen point p.
func (c *Camera) Ray(p r2.Point) (origin, dir mgl64.Vec3, ok bool) {
	wy := float64(c.height) - p.Y
	near, err := mgl64.UnProject(mgl64.Vec3{p.X, wy, 0}, c.view, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{p.X, wy, 1}, c.view, c.projection, 0, 0, c.width, c.height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	d := far.Sub(near)
	if d.Len() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return near, d.Normalize(), true
}

// Depth returns the distance of a world point in front of the camera.
func (c *Camera) Depth(world mgl64.Vec3) float64 {
	return -c.view.Mul4x1(world.Vec4(1)).Z()
}
