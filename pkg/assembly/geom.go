package assembly

import "math"

// Vec3 is a 3D vector.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Quat is a rotation quaternion ordered w, x, y, z. The zero value is
// treated as the identity so omitted rotations decode cleanly.
type Quat [4]float64

// Identity is the identity rotation.
var Identity = Quat{1, 0, 0, 0}

// Normalized returns q scaled to unit length, or Identity for the zero
// quaternion.
func (q Quat) Normalized() Quat {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		return Identity
	}
	return Quat{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.Normalized()
	u := Vec3{q[1], q[2], q[3]}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q[0])).Add(u.Cross(t))
}

// Euler returns the rotation as intrinsic Z-Y-X angles in radians, such that
// R = Rz(z) · Ry(y) · Rx(x).
func (q Quat) Euler() (x, y, z float64) {
	q = q.Normalized()
	w, qx, qy, qz := q[0], q[1], q[2], q[3]

	x = math.Atan2(2*(w*qx+qy*qz), 1-2*(qx*qx+qy*qy))
	sinp := 2 * (w*qy - qz*qx)
	switch {
	case sinp >= 1:
		y = math.Pi / 2
	case sinp <= -1:
		y = -math.Pi / 2
	default:
		y = math.Asin(sinp)
	}
	z = math.Atan2(2*(w*qz+qx*qy), 1-2*(qy*qy+qz*qz))
	return x, y, z
}
