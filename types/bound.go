package types

// An axis-aligned bounding box.
type Bound struct {
	Min Vec3
	Max Vec3
}

// Create an empty bound. Merging any point into it yields a bound
// containing just that point.
func EmptyBound() Bound {
	return Bound{
		Min: Splat3(Inf),
		Max: Splat3(-Inf),
	}
}

// Returns true if the bound contains no points.
func (b Bound) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Expand the bound so it includes p.
func (b Bound) MergePoint(p Vec3) Bound {
	return Bound{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Expand the bound so it includes b2.
func (b Bound) Merge(b2 Bound) Bound {
	return Bound{
		Min: MinVec3(b.Min, b2.Min),
		Max: MaxVec3(b.Max, b2.Max),
	}
}

// Bound centroid.
func (b Bound) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Bound extent along each axis.
func (b Bound) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Index of the axis with the largest extent.
func (b Bound) LongestAxis() int {
	s := b.Size()
	if s[0] > s[1] && s[0] > s[2] {
		return 0
	}
	if s[1] > s[2] {
		return 1
	}
	return 2
}

// Surface area of the bound. Empty bounds have zero area.
func (b Bound) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return 2 * (s[0]*s[1] + s[1]*s[2] + s[2]*s[0])
}

// Slab test: returns true if the ray overlaps the bound within [tmin, tmax].
func (b Bound) Isect(r Ray, tmin, tmax float32) bool {
	_, _, ok := b.IsectRange(r, tmin, tmax)
	return ok
}

// Clip [tmin, tmax] against the bound. Returns the clipped interval and
// false if the ray misses the bound.
func (b Bound) IsectRange(r Ray, tmin, tmax float32) (float32, float32, bool) {
	if b.IsEmpty() {
		return 0, 0, false
	}

	for axis := 0; axis < 3; axis++ {
		if r.D[axis] == 0 {
			// Parallel to the slab; origin must lie between the planes.
			if r.O[axis] < b.Min[axis] || r.O[axis] > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		invD := 1 / r.D[axis]
		t1 := (b.Min[axis] - r.O[axis]) * invD
		t2 := (b.Max[axis] - r.O[axis]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}
