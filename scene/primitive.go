package scene

import "github.com/achilleasa/prism/types"

// Primitive is a scene object. Each capability is optional; a primitive
// carrying a Mesh and a Material is renderable geometry, one with a Light
// is an emitter and one with a Camera is a viewpoint. Light and Camera are
// never both set.
type Primitive struct {
	Index     int
	Transform types.Transform

	Mesh     Mesh
	Material Material
	Light    Light
	Camera   Camera
}

// Describe the roles of the primitive.
func (p *Primitive) Role() string {
	switch {
	case p.Camera != nil:
		return "camera"
	case p.Light != nil && p.Light.IsInfinite():
		return "env light"
	case p.Light != nil:
		return "light"
	case p.Mesh != nil && p.Material != nil:
		return "geometry"
	case p.Mesh != nil:
		return "mesh"
	}
	return "material"
}
