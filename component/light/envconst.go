package light

import (
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

const uniformSpherePdf = 1 / (4 * types.Pi)

// EnvConstParams configures an EnvConst light.
type EnvConstParams struct {
	// Radiance arriving from every direction.
	Le types.Vec3 `mapstructure:"Le"`
}

// EnvConst is a constant environment light located at infinity.
type EnvConst struct {
	le types.Vec3
}

// Create an environment light from props.
func EnvConstFromProps(props config.Props) (*EnvConst, error) {
	var params EnvConstParams
	if err := config.Decode(props, &params); err != nil {
		return nil, err
	}
	return NewEnvConst(params.Le), nil
}

// Create an environment light with radiance le.
func NewEnvConst(le types.Vec3) *EnvConst {
	return &EnvConst{le: le}
}

func (l *EnvConst) IsSpecular(scene.PointGeometry) bool {
	return false
}

func (l *EnvConst) IsInfinite() bool {
	return true
}

// Sample a direction uniformly over the sphere.
func (l *EnvConst) Sample(rng *sampling.Rng, geom scene.PointGeometry, transform types.Transform) (scene.LightSample, bool) {
	wo := sampling.UniformSphere(rng.U2())
	geomL := scene.MakeInfinite(wo)
	pdf := l.Pdf(geom, geomL, -1, transform, wo)
	if pdf == 0 {
		return scene.LightSample{}, false
	}
	return scene.LightSample{
		Geom:   geomL,
		Face:   -1,
		Wo:     wo,
		Weight: l.le.Mul(1 / pdf),
	}, true
}

// Uniform sphere pdf converted to projected solid angle at geom.
func (l *EnvConst) Pdf(geom, geomL scene.PointGeometry, _ int, _ types.Transform, _ types.Vec3) float32 {
	if geom.Degenerate {
		return uniformSpherePdf
	}
	cos := geom.N.Dot(geomL.Wo)
	if cos < 0 {
		cos = -cos
	}
	if cos == 0 {
		return 0
	}
	return uniformSpherePdf / cos
}

func (l *EnvConst) Eval(scene.PointGeometry, types.Vec3) types.Vec3 {
	return l.le
}
