package material

import (
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

// Mirror is a perfect specular reflector. Its BSDF is a delta distribution
// so Pdf and Eval always return zero.
type Mirror struct{}

// Create a mirror material. Mirrors accept no properties.
func MirrorFromProps(props config.Props) (*Mirror, error) {
	var params struct{}
	if err := config.Decode(props, &params); err != nil {
		return nil, err
	}
	return &Mirror{}, nil
}

func (*Mirror) IsSpecular(scene.PointGeometry) bool {
	return true
}

func (*Mirror) Sample(_ *sampling.Rng, geom scene.PointGeometry, wi types.Vec3) (scene.MaterialSample, bool) {
	return scene.MaterialSample{
		Wo:     types.Reflection(wi, geom.N),
		Weight: types.Splat3(1),
	}, true
}

func (*Mirror) Reflectance(scene.PointGeometry) (types.Vec3, bool) {
	return types.Vec3{}, false
}

func (*Mirror) Pdf(scene.PointGeometry, types.Vec3, types.Vec3) float32 {
	return 0
}

func (*Mirror) Eval(scene.PointGeometry, types.Vec3, types.Vec3) types.Vec3 {
	return types.Vec3{}
}
