// Package material implements surface scattering models.
package material

import (
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

const invPi = 1 / types.Pi

// DiffuseParams configures a Diffuse material.
type DiffuseParams struct {
	// Diffuse reflectance.
	Kd types.Vec3 `mapstructure:"Kd"`
}

// Diffuse is a Lambertian reflector with BSDF Kd/pi.
type Diffuse struct {
	kd types.Vec3
}

// Create a diffuse material from props. Kd defaults to 1.
func DiffuseFromProps(props config.Props) (*Diffuse, error) {
	params := DiffuseParams{Kd: types.Splat3(1)}
	if err := config.Decode(props, &params); err != nil {
		return nil, err
	}
	return NewDiffuse(params.Kd), nil
}

// Create a diffuse material with reflectance kd.
func NewDiffuse(kd types.Vec3) *Diffuse {
	return &Diffuse{kd: kd}
}

func (m *Diffuse) IsSpecular(scene.PointGeometry) bool {
	return false
}

// Sample a cosine weighted direction on the same side of the surface as wi.
// The cosine term cancels with the pdf so the weight equals the reflectance.
func (m *Diffuse) Sample(rng *sampling.Rng, geom scene.PointGeometry, wi types.Vec3) (scene.MaterialSample, bool) {
	n, u, v := geom.OrthonormalBasis(wi)
	d := sampling.CosineHemisphere(rng.U2())
	return scene.MaterialSample{
		Wo:     u.Mul(d[0]).Add(v.Mul(d[1])).Add(n.Mul(d[2])),
		Weight: m.kd,
	}, true
}

func (m *Diffuse) Reflectance(scene.PointGeometry) (types.Vec3, bool) {
	return m.kd, true
}

func (m *Diffuse) Pdf(geom scene.PointGeometry, wi, wo types.Vec3) float32 {
	if geom.Opposite(wi, wo) {
		return 0
	}
	return invPi
}

func (m *Diffuse) Eval(geom scene.PointGeometry, wi, wo types.Vec3) types.Vec3 {
	if geom.Opposite(wi, wo) {
		return types.Vec3{}
	}
	return m.kd.Mul(invPi)
}
