// Package camera implements primary ray generators.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

var ErrInvalidCamera = errors.New("camera: invalid camera")

// PinholeParams configures a Pinhole camera.
type PinholeParams struct {
	Position types.Vec3 `mapstructure:"position"`
	Center   types.Vec3 `mapstructure:"center"`
	Up       types.Vec3 `mapstructure:"up"`

	// Vertical field of view in degrees.
	Vfov float32 `mapstructure:"vfov"`
}

// Pinhole is an ideal pinhole camera looking from position towards center.
// The camera ignores its primitive transform.
type Pinhole struct {
	position types.Vec3

	// Camera basis; the camera looks towards -w.
	u, v, w types.Vec3

	// Half of the screen height at unit distance.
	tf float32
}

// Create a pinhole camera from props.
func PinholeFromProps(props config.Props) (*Pinhole, error) {
	params := PinholeParams{Up: types.Vec3{0, 1, 0}}
	if err := config.Decode(props, &params); err != nil {
		return nil, err
	}
	return NewPinhole(params)
}

// Create a pinhole camera.
func NewPinhole(params PinholeParams) (*Pinhole, error) {
	if params.Vfov <= 0 || params.Vfov >= 180 {
		return nil, fmt.Errorf("%w: vfov must be in (0, 180); got %f", ErrInvalidCamera, params.Vfov)
	}
	w := params.Position.Sub(params.Center).Normalize()
	if w.IsZero() {
		return nil, fmt.Errorf("%w: position and center must differ", ErrInvalidCamera)
	}
	u := params.Up.Cross(w).Normalize()
	if u.IsZero() {
		return nil, fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidCamera)
	}

	return &Pinhole{
		position: params.Position,
		u:        u,
		v:        w.Cross(u),
		w:        w,
		tf:       float32(math.Tan(float64(params.Vfov) * math.Pi / 360)),
	}, nil
}

func (c *Pinhole) IsSpecular(scene.PointGeometry) bool {
	return false
}

// Generate the ray through raster position rp.
func (c *Pinhole) PrimaryRay(rp types.Vec2, aspectRatio float32) types.Ray {
	x, y := 2*rp[0]-1, 2*rp[1]-1
	d := types.Vec3{aspectRatio * c.tf * x, c.tf * y, -1}.Normalize()
	return types.Ray{
		O: c.position,
		D: c.u.Mul(d[0]).Add(c.v.Mul(d[1])).Add(c.w.Mul(d[2])),
	}
}

// Project a direction leaving the camera onto the raster.
func (c *Pinhole) RasterPosition(wo types.Vec3, aspectRatio float32) (types.Vec2, bool) {
	x, y, z := wo.Dot(c.u), wo.Dot(c.v), wo.Dot(c.w)
	if z >= 0 {
		return types.Vec2{}, false
	}
	rp := types.Vec2{
		(-x/z/c.tf/aspectRatio)*0.5 + 0.5,
		(-y/z/c.tf)*0.5 + 0.5,
	}
	if rp[0] < 0 || rp[0] > 1 || rp[1] < 0 || rp[1] > 1 {
		return types.Vec2{}, false
	}
	return rp, true
}

// Sample a ray through a uniformly chosen position inside window.
func (c *Pinhole) SamplePrimaryRay(rng *sampling.Rng, window types.Vec4, aspectRatio float32) (scene.CameraSample, bool) {
	u := rng.U2()
	rp := types.Vec2{window[0] + window[2]*u[0], window[1] + window[3]*u[1]}
	return scene.CameraSample{
		Geom:   scene.MakeDegenerate(c.position),
		Wo:     c.PrimaryRay(rp, aspectRatio).D,
		Weight: types.Splat3(1),
	}, true
}

func (c *Pinhole) Pdf(wo types.Vec3, aspectRatio float32) float32 {
	if _, ok := c.RasterPosition(wo, aspectRatio); !ok {
		return 0
	}
	return c.jacobian(wo, aspectRatio)
}

// Importance equals the pdf; the weight of a sampled primary ray is one.
func (c *Pinhole) Eval(wo types.Vec3, aspectRatio float32) types.Vec3 {
	return types.Splat3(c.Pdf(wo, aspectRatio))
}

// Jacobian of the raster to projected solid angle mapping.
func (c *Pinhole) jacobian(wo types.Vec3, aspectRatio float32) float32 {
	invCos := 1 / -wo.Dot(c.w)
	area := c.tf * c.tf * aspectRatio * 4
	return invCos * invCos * invCos / area
}
