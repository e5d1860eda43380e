// Package scenefile loads scene description documents.
//
// A scene document is a JSON object with the following sections:
//
//	{
//	  "assets": [
//	    {"name": "floor", "type": "mesh::raw", "params": {...}},
//	    {"name": "tri", "type": "mesh::raw", "include": "tri.json"},
//	    {"name": "bunny", "type": "mesh::obj", "params": {"file": "bunny.obj"}}
//	  ],
//	  "primitives": [
//	    {"transform": {"translate": [0, 1, 0]}, "mesh": "floor", "material": "white"}
//	  ],
//	  "accel": {"name": "accel::sahbvh", "params": {"bins": 16}},
//	  "light_selection": "power"
//	}
//
// Assets are loaded in order so later assets may reference earlier ones.
// An asset "include" is resolved relative to the scene document and its
// JSON object is merged under the inline params. Files referenced by asset
// params are also resolved relative to the scene document.
package scenefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/achilleasa/prism/accel/bvh"
	_ "github.com/achilleasa/prism/accel/naive"
	_ "github.com/achilleasa/prism/accel/rtree"
	"github.com/achilleasa/prism/asset"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
)

// The acceleration structure used when a document does not specify one.
const DefaultAccel = "accel::sahbvh"

type assetDef struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Include string       `json:"include"`
	Params  config.Props `json:"params"`
}

type accelDef struct {
	Name   string       `json:"name"`
	Params config.Props `json:"params"`
}

type document struct {
	Assets         []assetDef     `json:"assets"`
	Primitives     []config.Props `json:"primitives"`
	Accel          *accelDef      `json:"accel"`
	LightSelection string         `json:"light_selection"`
}

// Overrides applied on top of the document.
type Options struct {
	// Acceleration structure name; overrides the document.
	Accel string
}

var logger = log.New("scenefile")

// Load and build the scene at path.
func Load(path string, opts Options) (*scene.Scene, *asset.Registry, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, nil, err
	}
	return Parse(res, opts)
}

// Parse and build a scene document read from res. Relative includes are
// resolved against res.
func Parse(res *asset.Resource, opts Options) (*scene.Scene, *asset.Registry, error) {
	start := time.Now()
	data, err := res.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	var doc document
	if err = decodeStrict(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w '%s': %v", ErrInvalidDocument, res.Path(), err)
	}

	reg := asset.NewRegistry()
	reg.SetBase(res)
	for index, def := range doc.Assets {
		props, err := resolveAsset(def, res)
		if err != nil {
			return nil, nil, fmt.Errorf("scenefile: asset %d: %w", index, err)
		}
		if err = reg.Load(def.Name, def.Type, props); err != nil {
			return nil, nil, err
		}
	}

	var sceneOpts []scene.Option
	switch doc.LightSelection {
	case "", "uniform":
	case "power":
		sceneOpts = append(sceneOpts, scene.WithLightSelection(scene.PowerLightSelection))
	default:
		return nil, nil, fmt.Errorf("%w: unknown light selection '%s'", ErrInvalidDocument, doc.LightSelection)
	}

	sc := scene.New(reg, sceneOpts...)
	for index, props := range doc.Primitives {
		if err = loadPrimitive(sc, props); err != nil {
			return nil, nil, fmt.Errorf("scenefile: primitive %d: %w", index, err)
		}
	}

	accelName, accelProps := DefaultAccel, config.Props(nil)
	if doc.Accel != nil {
		if doc.Accel.Name != "" {
			accelName = doc.Accel.Name
		}
		accelProps = doc.Accel.Params
	}
	if opts.Accel != "" && opts.Accel != accelName {
		accelName, accelProps = opts.Accel, nil
	}
	if err = sc.Build(accelName, accelProps); err != nil {
		return nil, nil, err
	}

	logger.Noticef("loaded '%s' (%d assets, %d primitives) in %d ms", res.Path(), len(doc.Assets), len(doc.Primitives), time.Since(start).Nanoseconds()/1e6)
	return sc, reg, nil
}

func loadPrimitive(sc *scene.Scene, props config.Props) error {
	var transformProps config.Props
	if props.Has("transform") {
		var err error
		if transformProps, err = props.Sub("transform"); err != nil {
			return err
		}
	}
	transform, err := config.Transform(transformProps)
	if err != nil {
		return err
	}

	refs := make(config.Props, len(props))
	for k, v := range props {
		if k != "transform" {
			refs[k] = v
		}
	}
	return sc.LoadPrimitive(transform, refs)
}

// Merge the included params file (if any) with the inline params. Inline
// params take precedence.
func resolveAsset(def assetDef, relTo *asset.Resource) (config.Props, error) {
	props := config.Props{}
	if def.Include != "" {
		res, err := asset.NewResource(def.Include, relTo)
		if err != nil {
			return nil, err
		}
		data, err := res.ReadAll()
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("%w '%s': %v", ErrInvalidDocument, res.Path(), err)
		}
	}
	for k, v := range def.Params {
		props[k] = v
	}
	return props, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
