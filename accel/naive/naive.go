// Package naive implements a brute force acceleration structure that tests
// every triangle for each query. It is mainly useful as a reference when
// validating other backends.
package naive

import (
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/types"
)

const Name = "accel::naive"

func init() {
	accel.Register(Name, func(props config.Props) (accel.Accel, error) {
		if len(props) != 0 {
			return nil, accel.ErrInvalidParams
		}
		return New(), nil
	})
}

// Naive is a brute force triangle list.
type Naive struct {
	tris      []accel.Triangle
	buildTime time.Duration
}

// Create an empty backend.
func New() *Naive {
	return &Naive{}
}

func (n *Naive) Build(src accel.TriangleSource) error {
	start := time.Now()
	n.tris = accel.Gather(src)
	n.buildTime = time.Since(start)
	return nil
}

func (n *Naive) Intersect(ray types.Ray, tmin, tmax float32) (accel.Hit, bool) {
	var (
		hit   accel.Hit
		found bool
	)
	for i := range n.tris {
		t, uv, ok := n.tris[i].Isect(ray, tmin, tmax)
		if !ok {
			continue
		}
		tmax = t
		found = true
		hit = accel.Hit{T: t, UV: uv, Primitive: n.tris[i].Primitive, Face: n.tris[i].Face}
	}
	return hit, found
}

func (n *Naive) Stats() accel.Stats {
	return accel.Stats{
		Triangles: len(n.tris),
		Leaves:    1,
		BuildTime: n.buildTime,
	}
}
