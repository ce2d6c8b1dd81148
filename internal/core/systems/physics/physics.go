package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 0, 1}

// Transform places local-space points and directions into world space.
// The zero value is the identity transform.
type Transform struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform builds a transform at loc rotated yaw degrees around Up.
func NewTransform(loc mgl64.Vec3, yaw float64) Transform {
	return Transform{
		Location: loc,
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(yaw), Up),
	}
}

func (t Transform) rotation() mgl64.Quat {
	if t.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

// Point transforms a local-space point.
func (t Transform) Point(local mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(local).Add(t.Location)
}

// Direction transforms a local-space direction. The result is unit length
// when local is non-zero.
func (t Transform) Direction(local mgl64.Vec3) mgl64.Vec3 {
	return Normalize(t.rotation().Rotate(local))
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// DistanceSq is the squared Euclidean distance between a and b.
func DistanceSq(a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

// NearlyZero reports whether every component of v is within the matching
// tolerance component.
func NearlyZero(v, tol mgl64.Vec3) bool {
	return math.Abs(v[0]) <= tol[0] && math.Abs(v[1]) <= tol[1] && math.Abs(v[2]) <= tol[2]
}

// Collinear reports whether a and b are parallel or anti-parallel, i.e. their
// cross product is nearly zero on every axis.
func Collinear(a, b mgl64.Vec3, tol float64) bool {
	return NearlyZero(a.Cross(b), mgl64.Vec3{tol, tol, tol})
}

// CollinearLoose is Collinear with a separate tolerance for the vertical
// component of the cross product.
func CollinearLoose(a, b mgl64.Vec3, tol, verticalTol float64) bool {
	return NearlyZero(a.Cross(b), mgl64.Vec3{tol, tol, verticalTol})
}

// Segment is a finite line between two points.
type Segment struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// SegmentAlong starts at origin and extends length units along dir.
func SegmentAlong(origin, dir mgl64.Vec3, length float64) Segment {
	return Segment{Start: origin, End: origin.Add(Normalize(dir).Mul(length))}
}

// Closest returns the fraction along the segment of the point nearest p,
// clamped to [0, 1].
func (s Segment) Closest(p mgl64.Vec3) float64 {
	d := s.End.Sub(s.Start)
	l2 := d.Dot(d)
	if l2 == 0 {
		return 0
	}
	t := p.Sub(s.Start).Dot(d) / l2
	return math.Max(0, math.Min(1, t))
}

// At returns the point at fraction t along the segment.
func (s Segment) At(t float64) mgl64.Vec3 {
	return s.Start.Add(s.End.Sub(s.Start).Mul(t))
}

// IntersectsSphere reports whether the segment passes within radius of
// center, and the fraction along the segment of the closest approach.
func (s Segment) IntersectsSphere(center mgl64.Vec3, radius float64) (bool, float64) {
	t := s.Closest(center)
	return DistanceSq(s.At(t), center) <= radius*radius, t
}

// Bounds returns the axis-aligned box enclosing the segment.
func (s Segment) Bounds() (lo, hi mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		lo[i] = math.Min(s.Start[i], s.End[i])
		hi[i] = math.Max(s.Start[i], s.End[i])
	}
	return lo, hi
}

// Sphere is a ball used for overlap probes and collision bodies.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Overlaps reports whether two spheres touch or intersect.
func (s Sphere) Overlaps(o Sphere) bool {
	r := s.Radius + o.Radius
	return DistanceSq(s.Center, o.Center) <= r*r
}

// Bounds returns the axis-aligned box enclosing the sphere.
func (s Sphere) Bounds() (lo, hi mgl64.Vec3) {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return s.Center.Sub(r), s.Center.Add(r)
}
