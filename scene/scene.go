// Package scene owns the set of primitives that make up a scene, builds an
// acceleration structure over their triangles and exposes the sampling and
// evaluation facade used by renderers.
//
// A scene goes through two phases. During the load phase primitives are
// added with LoadPrimitive and the acceleration structure is created with
// Build; neither call may run concurrently with any other call. Once Build
// returns, all query methods are read-only and may be invoked concurrently
// as long as each goroutine uses its own sampling.Rng.
package scene

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/sampling"
	"github.com/achilleasa/prism/types"
)

// AssetLookup resolves asset locators into asset instances.
type AssetLookup interface {
	Lookup(locator string) (interface{}, error)
}

// LightSelection controls how SampleLight picks a light.
type LightSelection uint8

const (
	// Every light is selected with the same probability.
	UniformLightSelection LightSelection = iota

	// Lights are selected proportionally to their estimated power. Falls
	// back to uniform selection unless every light implements
	// PowerEstimator.
	PowerLightSelection
)

type options struct {
	lightSelection LightSelection
}

// Option configures a Scene.
type Option func(*options)

// Set the light selection strategy.
func WithLightSelection(sel LightSelection) Option {
	return func(opts *options) {
		opts.lightSelection = sel
	}
}

// Primitive property keys accepted by LoadPrimitive.
const (
	MeshKey     = "mesh"
	MaterialKey = "material"
	LightKey    = "light"
	CameraKey   = "camera"
)

type lightRef struct {
	primitive int
	transform types.Transform
}

// Scene is a collection of primitives plus an acceleration structure.
type Scene struct {
	logger log.Logger
	assets AssetLookup
	opts   options

	primitives []*Primitive

	// Indices of the camera and environment light primitives or -1.
	camera   int
	envLight int

	accel     accel.Accel
	accelName string
	buildTime time.Duration

	// Light bookkeeping; recomputed by Build.
	lights     []lightRef
	lightIndex map[int]int
	lightDist  sampling.Dist
}

// Create an empty scene resolving asset references through assets.
func New(assets AssetLookup, opts ...Option) *Scene {
	s := &Scene{
		logger:     log.New("scene"),
		assets:     assets,
		camera:     -1,
		envLight:   -1,
		lightIndex: make(map[int]int),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Add a primitive. Props map the mesh, material, light and camera keys to
// asset locators. On failure the scene is left unchanged and the returned
// error describes the problem.
func (s *Scene) LoadPrimitive(transform types.Mat4, props config.Props) error {
	prim, err := s.makePrimitive(transform, props)
	if err != nil {
		s.logger.Errorf("failed to load primitive %d: %v", len(s.primitives), err)
		return err
	}

	if prim.Camera != nil {
		if s.camera != -1 {
			s.logger.Noticef("camera primitive %d replaces camera primitive %d", prim.Index, s.camera)
		}
		s.camera = prim.Index
	}
	if prim.Light != nil && prim.Light.IsInfinite() {
		s.envLight = prim.Index
	}

	s.primitives = append(s.primitives, prim)
	s.logger.Debugf("loaded primitive %d (%s)", prim.Index, prim.Role())
	return nil
}

func (s *Scene) makePrimitive(transform types.Mat4, props config.Props) (*Primitive, error) {
	for key := range props {
		switch key {
		case MeshKey, MaterialKey, LightKey, CameraKey:
		default:
			return nil, fmt.Errorf("%w '%s'", ErrUnknownPrimitiveKey, key)
		}
	}

	prim := &Primitive{
		Index:     len(s.primitives),
		Transform: types.NewTransform(transform),
	}

	var err error
	if prim.Mesh, err = resolve[Mesh](s, props, MeshKey); err != nil {
		return nil, err
	}
	if prim.Material, err = resolve[Material](s, props, MaterialKey); err != nil {
		return nil, err
	}
	if prim.Light, err = resolve[Light](s, props, LightKey); err != nil {
		return nil, err
	}
	if prim.Camera, err = resolve[Camera](s, props, CameraKey); err != nil {
		return nil, err
	}

	switch {
	case prim.Mesh == nil && prim.Material == nil && prim.Light == nil && prim.Camera == nil:
		return nil, ErrEmptyPrimitive
	case prim.Light != nil && prim.Camera != nil:
		return nil, ErrLightAndCamera
	case prim.Light != nil && prim.Light.IsInfinite() && s.envLight != -1:
		return nil, fmt.Errorf("%w; primitive %d is already an environment light", ErrMultipleEnvLights, s.envLight)
	case (prim.Mesh != nil || (prim.Light != nil && !prim.Light.IsInfinite())) && prim.Transform.J == 0:
		return nil, ErrSingularTransform
	}

	return prim, nil
}

// Resolve the asset referenced by key and check that it implements T.
// Missing keys yield the zero value.
func resolve[T any](s *Scene, props config.Props, key string) (T, error) {
	var zero T
	if !props.Has(key) {
		return zero, nil
	}

	locator, err := props.String(key)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	if s.assets == nil {
		return zero, fmt.Errorf("%w: no asset registry to resolve '%s'", ErrInvalidAsset, locator)
	}

	asset, err := s.assets.Lookup(locator)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	typed, ok := asset.(T)
	if !ok {
		return zero, fmt.Errorf("%w: asset '%s' (%T) cannot be used as %s", ErrInvalidAsset, locator, asset, key)
	}
	return typed, nil
}

// Check whether the scene can be rendered. A nil error means renderable.
func (s *Scene) Renderable() error {
	var err error
	switch {
	case len(s.primitives) == 0:
		err = ErrNoPrimitives
	case s.camera == -1:
		err = ErrMissingCamera
	case s.accel == nil:
		err = ErrNotBuilt
	}
	if err != nil {
		s.logger.Error(err.Error())
	}
	return err
}

// Build (or rebuild) the named acceleration structure over the current
// primitive set. On failure the scene is left unbuilt.
func (s *Scene) Build(name string, props config.Props) error {
	s.accel = nil
	s.accelName = ""

	a, err := accel.New(name, props)
	if err != nil {
		s.logger.Errorf("failed to create acceleration structure: %v", err)
		return err
	}

	s.buildLights()

	s.logger.Infof("building acceleration structure '%s'", name)
	start := time.Now()
	if err = a.Build(s); err != nil {
		s.logger.Errorf("failed to build acceleration structure '%s': %v", name, err)
		return err
	}
	s.buildTime = time.Since(start)
	s.accel = a
	s.accelName = name
	s.logger.Noticef("built '%s' in %d ms", name, s.buildTime.Nanoseconds()/1e6)
	return nil
}

func (s *Scene) buildLights() {
	s.lights = s.lights[:0]
	s.lightIndex = make(map[int]int)
	s.lightDist.Clear()

	usePower := s.opts.lightSelection == PowerLightSelection
	for _, prim := range s.primitives {
		if prim.Light == nil {
			continue
		}
		s.lightIndex[prim.Index] = len(s.lights)
		s.lights = append(s.lights, lightRef{primitive: prim.Index, transform: prim.Transform})
		if _, ok := prim.Light.(PowerEstimator); !ok && usePower {
			s.logger.Warningf("light primitive %d cannot estimate its power; using uniform light selection", prim.Index)
			usePower = false
		}
	}

	for _, l := range s.lights {
		weight := float32(1)
		if usePower {
			weight = s.primitives[l.primitive].Light.(PowerEstimator).Power(l.transform)
		}
		s.lightDist.Add(weight)
	}
	s.lightDist.Normalize()
}

func (s *Scene) mustBeBuilt(op string) {
	if s.accel == nil {
		panic("scene: " + op + " called before Build")
	}
}

// Find the nearest surface point along ray within [tmin, tmax]. When
// nothing is hit, tmax >= types.Inf and the scene contains an environment
// light, the returned point is that light's endpoint at infinity.
// Panics if the scene has not been built.
func (s *Scene) Intersect(ray types.Ray, tmin, tmax float32) (SurfacePoint, bool) {
	s.mustBeBuilt("Intersect")

	hit, ok := s.accel.Intersect(ray, tmin, tmax)
	if !ok {
		if tmax < types.Inf || s.envLight == -1 {
			return SurfacePoint{}, false
		}
		return MakeLightEndpoint(s.envLight, -1, MakeInfinite(ray.D.Neg())), true
	}

	prim := s.primitives[hit.Primitive]
	mp := prim.Mesh.SurfacePoint(hit.Face, hit.UV)
	geom := MakeOnSurface(
		prim.Transform.Point(mp.P),
		prim.Transform.Normal(mp.N),
		mp.T,
	)
	return MakeSurfacePoint(hit.Primitive, hit.Face, geom), true
}

// Check whether two points are mutually visible. A ray is cast from the
// finite point towards the other over [Eps, d*(1-Eps)] for finite targets
// or [Eps, Inf-1] for points at infinity; the points are visible if nothing
// is hit. When both points are finite the ray always starts at the point
// that sorts first so Visible(a, b) == Visible(b, a). Coincident finite
// points are visible; two points at infinity are not.
// Panics if the scene has not been built.
func (s *Scene) Visible(sp1, sp2 SurfacePoint) bool {
	s.mustBeBuilt("Visible")

	switch {
	case sp1.Geom.Infinite && sp2.Geom.Infinite:
		return false
	case sp1.Geom.Infinite:
		sp1, sp2 = sp2, sp1
	case !sp2.Geom.Infinite && lessPoint(sp2.Geom.P, sp1.Geom.P):
		sp1, sp2 = sp2, sp1
	}

	var (
		wo   types.Vec3
		tmax float32
	)
	if sp2.Geom.Infinite {
		wo = sp2.Geom.Wo.Neg()
		tmax = types.Inf - 1
	} else {
		d := sp1.Geom.P.Distance(sp2.Geom.P)
		if d == 0 {
			return true
		}
		wo = sp2.Geom.P.Sub(sp1.Geom.P).Mul(1 / d)
		tmax = d * (1 - types.Eps)
	}

	// Query the accel directly so the environment light is never reported
	// as an occluder.
	_, hit := s.accel.Intersect(types.Ray{O: sp1.Geom.P, D: wo}, types.Eps, tmax)
	return !hit
}

func lessPoint(a, b types.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (s *Scene) primitive(sp SurfacePoint) *Primitive {
	if sp.Primitive < 0 || sp.Primitive >= len(s.primitives) {
		return nil
	}
	return s.primitives[sp.Primitive]
}

// Returns true if sp belongs to a light primitive.
func (s *Scene) IsLight(sp SurfacePoint) bool {
	prim := s.primitive(sp)
	return prim != nil && prim.Light != nil
}

// Returns true if scattering at sp is described by a delta distribution.
func (s *Scene) IsSpecular(sp SurfacePoint) bool {
	prim := s.primitive(sp)
	if prim == nil {
		return false
	}
	if sp.Endpoint {
		switch {
		case prim.Light != nil:
			return prim.Light.IsSpecular(sp.Geom)
		case prim.Camera != nil:
			return prim.Camera.IsSpecular(sp.Geom)
		}
		return false
	}
	if prim.Material == nil {
		return false
	}
	return prim.Material.IsSpecular(sp.Geom)
}

func (s *Scene) mustHaveCamera(op string) Camera {
	if s.camera == -1 {
		panic("scene: " + op + " called on a scene without a camera")
	}
	return s.primitives[s.camera].Camera
}

// Generate a primary ray through raster position rp in [0, 1]^2.
// Panics if the scene has no camera.
func (s *Scene) PrimaryRay(rp types.Vec2, aspectRatio float32) types.Ray {
	return s.mustHaveCamera("PrimaryRay").PrimaryRay(rp, aspectRatio)
}

// Get the raster position of a primary ray direction.
func (s *Scene) RasterPosition(wo types.Vec3, aspectRatio float32) (types.Vec2, bool) {
	return s.mustHaveCamera("RasterPosition").RasterPosition(wo, aspectRatio)
}

// Sample a ray leaving sp given the incident direction wi. Camera
// terminators sample primary rays; surface points sample their material.
// Light endpoints and points without a material yield no sample.
// Panics if the scene has not been built.
func (s *Scene) SampleRay(rng *sampling.Rng, sp SurfacePoint, wi types.Vec3) (RaySample, bool) {
	s.mustBeBuilt("SampleRay")
	if sp.Terminator == CameraTerminator {
		camera := s.mustHaveCamera("SampleRay")
		cs, ok := camera.SamplePrimaryRay(rng, sp.Camera.Window, sp.Camera.AspectRatio)
		if !ok {
			return RaySample{}, false
		}
		return validSample(RaySample{
			Sp:     MakeCameraEndpoint(s.camera, cs.Geom, sp.Camera.Window, sp.Camera.AspectRatio),
			Wo:     cs.Wo,
			Weight: cs.Weight,
		})
	}

	prim := s.primitive(sp)
	if prim == nil || sp.Endpoint || prim.Material == nil {
		return RaySample{}, false
	}
	ms, ok := prim.Material.Sample(rng, sp.Geom, wi)
	if !ok {
		return RaySample{}, false
	}
	return validSample(RaySample{
		Sp:     MakeSurfacePoint(sp.Primitive, sp.Face, sp.Geom),
		Wo:     ms.Wo,
		Weight: ms.Weight,
	})
}

// Sample a primary ray through a normalized raster window (x, y, w, h).
// Panics if the scene has not been built.
func (s *Scene) SamplePrimaryRay(rng *sampling.Rng, window types.Vec4, aspectRatio float32) (RaySample, bool) {
	return s.SampleRay(rng, MakeCameraTerminator(window, aspectRatio), types.Vec3{})
}

// Select a light and sample a point on it as seen from sp. The returned
// sample's Wo points from the light towards sp and its weight includes the
// light selection probability. Panics if the scene has not been built.
func (s *Scene) SampleLight(rng *sampling.Rng, sp SurfacePoint) (RaySample, bool) {
	s.mustBeBuilt("SampleLight")
	if len(s.lights) == 0 {
		return RaySample{}, false
	}

	li := s.lightDist.Sample(rng.U())
	pL := s.lightDist.Pmf(li)
	if pL == 0 {
		return RaySample{}, false
	}

	l := s.lights[li]
	ls, ok := s.primitives[l.primitive].Light.Sample(rng, sp.Geom, l.transform)
	if !ok {
		return RaySample{}, false
	}
	return validSample(RaySample{
		Sp:     MakeLightEndpoint(l.primitive, ls.Face, ls.Geom),
		Wo:     ls.Wo,
		Weight: ls.Weight.Mul(1 / pL),
	})
}

// Reject samples whose weight is zero or not finite.
func validSample(rs RaySample) (RaySample, bool) {
	if rs.Weight.IsZero() || !rs.Weight.IsFinite() || !rs.Wo.IsFinite() {
		return RaySample{}, false
	}
	return rs, true
}

// Evaluate the pdf of sampling wo from sp given wi with SampleRay.
func (s *Scene) Pdf(sp SurfacePoint, wi, wo types.Vec3) float32 {
	prim := s.primitive(sp)
	if prim == nil {
		return 0
	}
	if sp.Endpoint {
		if prim.Camera != nil {
			return sanitize(prim.Camera.Pdf(wo, sp.Camera.AspectRatio))
		}
		// Light endpoints are never produced by SampleRay.
		return 0
	}
	if prim.Material == nil {
		return 0
	}
	return sanitize(prim.Material.Pdf(sp.Geom, wi, wo))
}

// Evaluate the pdf of sampling light endpoint spL from sp with SampleLight,
// including the light selection probability.
func (s *Scene) PdfLight(sp, spL SurfacePoint, wo types.Vec3) float32 {
	prim := s.primitive(spL)
	if prim == nil || prim.Light == nil {
		return 0
	}
	li, exists := s.lightIndex[spL.Primitive]
	if !exists {
		return 0
	}
	l := s.lights[li]
	return sanitize(prim.Light.Pdf(sp.Geom, spL.Geom, spL.Face, l.transform, wo) * s.lightDist.Pmf(li))
}

// Evaluate the scattering function at sp: camera importance for camera
// endpoints, emission for light endpoints and the BSDF otherwise.
func (s *Scene) EvalBsdf(sp SurfacePoint, wi, wo types.Vec3) types.Vec3 {
	prim := s.primitive(sp)
	if prim == nil {
		return types.Vec3{}
	}
	if sp.Endpoint {
		switch {
		case prim.Camera != nil:
			return prim.Camera.Eval(wo, sp.Camera.AspectRatio)
		case prim.Light != nil:
			return prim.Light.Eval(sp.Geom, wo)
		}
		return types.Vec3{}
	}
	if prim.Material == nil {
		return types.Vec3{}
	}
	return prim.Material.Eval(sp.Geom, wi, wo)
}

// Evaluate the emission leaving sp in direction wo. Non-emitters return
// zero.
func (s *Scene) EvalContrbEndpoint(sp SurfacePoint, wo types.Vec3) types.Vec3 {
	prim := s.primitive(sp)
	if prim == nil || prim.Light == nil {
		return types.Vec3{}
	}
	return prim.Light.Eval(sp.Geom, wo)
}

// Get the reflectance at sp if its material defines one.
func (s *Scene) Reflectance(sp SurfacePoint) (types.Vec3, bool) {
	prim := s.primitive(sp)
	if prim == nil || prim.Material == nil {
		return types.Vec3{}, false
	}
	return prim.Material.Reflectance(sp.Geom)
}

func sanitize(pdf float32) float32 {
	if pdf <= 0 || math.IsNaN(float64(pdf)) || math.IsInf(float64(pdf), 0) {
		return 0
	}
	return pdf
}

// Invoke fn for each world space triangle in primitive then face order.
func (s *Scene) ForeachTriangle(fn func(primitive, face int, p1, p2, p3 types.Vec3)) {
	for _, prim := range s.primitives {
		if prim.Mesh == nil {
			continue
		}
		tr := prim.Transform
		prim.Mesh.ForeachTriangle(func(face int, tri MeshTri) {
			fn(prim.Index, face, tr.Point(tri.P1), tr.Point(tri.P2), tr.Point(tri.P3))
		})
	}
}

// Invoke fn for each primitive in index order.
func (s *Scene) ForeachPrimitive(fn func(p *Primitive)) {
	for _, prim := range s.primitives {
		fn(prim)
	}
}

// Get the number of primitives.
func (s *Scene) NumPrimitives() int {
	return len(s.primitives)
}

// Get the number of lights registered by the last Build.
func (s *Scene) NumLights() int {
	return len(s.lights)
}

// Get the camera primitive index or -1.
func (s *Scene) CameraIndex() int {
	return s.camera
}

// Get the environment light primitive index or -1.
func (s *Scene) EnvLightIndex() int {
	return s.envLight
}

// Get the name of the built acceleration structure.
func (s *Scene) AccelName() string {
	return s.accelName
}

// Get the primitive indices of all lights, sorted.
func (s *Scene) LightPrimitives() []int {
	out := make([]int, 0, len(s.lightIndex))
	for idx := range s.lightIndex {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
