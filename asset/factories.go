package asset

import (
	"fmt"

	"github.com/achilleasa/prism/component/camera"
	"github.com/achilleasa/prism/component/light"
	"github.com/achilleasa/prism/component/material"
	"github.com/achilleasa/prism/component/mesh"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/scene"
)

var builtinFactories = map[string]Factory{
	"mesh::raw":         loadRawMesh,
	"mesh::obj":         loadObjMesh,
	"material::diffuse": loadDiffuse,
	"material::mirror":  loadMirror,
	"light::area":       loadAreaLight,
	"light::envconst":   loadEnvConst,
	"camera::pinhole":   loadPinhole,
}

func loadRawMesh(_ *Registry, props config.Props) (interface{}, error) {
	return mesh.FromProps(props)
}

func loadObjMesh(reg *Registry, props config.Props) (interface{}, error) {
	params, err := mesh.DecodeObjParams(props)
	if err != nil {
		return nil, err
	}
	res, err := reg.Open(params.File)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return mesh.ParseObj(res, res.Path())
}

func loadDiffuse(_ *Registry, props config.Props) (interface{}, error) {
	return material.DiffuseFromProps(props)
}

func loadMirror(_ *Registry, props config.Props) (interface{}, error) {
	return material.MirrorFromProps(props)
}

// Area lights reference a previously loaded mesh asset.
func loadAreaLight(reg *Registry, props config.Props) (interface{}, error) {
	params, err := light.DecodeAreaParams(props)
	if err != nil {
		return nil, err
	}
	inst, err := reg.Lookup(params.Mesh)
	if err != nil {
		return nil, err
	}
	m, ok := inst.(scene.Mesh)
	if !ok {
		return nil, fmt.Errorf("%w: asset '%s' is not a mesh", light.ErrInvalidLight, params.Mesh)
	}
	return light.NewArea(params.Ke, m)
}

func loadEnvConst(_ *Registry, props config.Props) (interface{}, error) {
	return light.EnvConstFromProps(props)
}

func loadPinhole(_ *Registry, props config.Props) (interface{}, error) {
	return camera.PinholeFromProps(props)
}
