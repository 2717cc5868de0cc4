package orient

import "math"

const (
	twoPi = 2 * math.Pi

	// poleTolerance decides when |cos Φ| is treated as exactly one, where
	// φ1 and φ2 are no longer separable.
	poleTolerance = 1e-6

	// epsilon is the snapping threshold for FromEuler.
	epsilon = 2.220446049250313e-16
)

// Euler holds Bunge (ZXZ) Euler angles in radians.
type Euler struct {
	Phi1, Phi, Phi2 float64
}

// EulerF32 widens a float32 angle triple as stored by the feature layer.
func EulerF32(phi1, phi, phi2 float32) Euler {
	return Euler{Phi1: float64(phi1), Phi: float64(phi), Phi2: float64(phi2)}
}

// FromEuler returns the passive orientation matrix for e.
// Elements smaller in magnitude than machine epsilon are set to zero so that
// special orientations produce exact matrices.
func FromEuler(e Euler) Mat3 {
	c1, s1 := math.Cos(e.Phi1), math.Sin(e.Phi1)
	c2, s2 := math.Cos(e.Phi), math.Sin(e.Phi)
	c3, s3 := math.Cos(e.Phi2), math.Sin(e.Phi2)

	m := Mat3{
		{c1*c3 - s1*s3*c2, s1*c3 + c1*s3*c2, s3 * s2},
		{-c1*s3 - s1*c3*c2, -s1*s3 + c1*c3*c2, c3 * s2},
		{s1 * s2, -c1 * s2, c2},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]) < epsilon {
				m[i][j] = 0
			}
		}
	}
	return m
}

// Euler converts an orientation matrix back to Bunge angles with
// φ1, φ2 in [0, 2π) and Φ in [0, π].
//
// When |cos Φ| is within 1e-6 of one the decomposition degenerates and the
// whole rotation is assigned to φ1.
func (m Mat3) Euler() Euler {
	var e Euler
	o8 := m[2][2]
	if math.Abs(math.Abs(o8)-1) > poleTolerance {
		e.Phi = math.Acos(o8)
		zeta := 1 / math.Sqrt(1-o8*o8)
		e.Phi1 = math.Atan2(m[2][0]*zeta, -m[2][1]*zeta)
		e.Phi2 = math.Atan2(m[0][2]*zeta, m[1][2]*zeta)
	} else if math.Abs(o8-1) <= poleTolerance {
		e.Phi1 = math.Atan2(m[0][1], m[0][0])
	} else {
		e.Phi1 = -math.Atan2(-m[0][1], m[0][0])
		e.Phi = math.Pi
	}

	if e.Phi1 < 0 {
		e.Phi1 = math.Mod(e.Phi1+100*math.Pi, twoPi)
	}
	if e.Phi < 0 {
		e.Phi = math.Mod(e.Phi+100*math.Pi, math.Pi)
	}
	if e.Phi2 < 0 {
		e.Phi2 = math.Mod(e.Phi2+100*math.Pi, twoPi)
	}
	return e
}

// FromAxisAngle returns the passive matrix for a rotation of angle radians
// about axis. The axis need not be normalized.
// FromAxisAngle(V3(0, 0, 1), a) equals FromEuler(Euler{Phi1: a}).
func FromAxisAngle(axis Vec3, angle float64) Mat3 {
	n := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	omc := 1 - c

	m := Mat3{
		{n[0]*n[0]*omc + c, 0, 0},
		{0, n[1]*n[1]*omc + c, 0},
		{0, 0, n[2]*n[2]*omc + c},
	}
	q := omc * n[0] * n[1]
	m[0][1] = q + s*n[2]
	m[1][0] = q - s*n[2]
	q = omc * n[1] * n[2]
	m[1][2] = q + s*n[0]
	m[2][1] = q - s*n[0]
	q = omc * n[2] * n[0]
	m[2][0] = q + s*n[1]
	m[0][2] = q - s*n[1]
	return m
}

// FromQuaternion returns the passive matrix for the unit quaternion
// (x, y, z, w) with w the scalar part. The quaternion is normalized first.
func FromQuaternion(x, y, z, w float64) Mat3 {
	l := math.Sqrt(x*x + y*y + z*z + w*w)
	if l == 0 {
		return Identity()
	}
	x, y, z, w = x/l, y/l, z/l, w/l

	// Transpose of the active form.
	return Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w)},
		{2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w)},
		{2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y)},
	}
}
