package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec3(t *testing.T, expected, actual Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, eps, msgAndArgs...)
	assert.InDelta(t, expected.Y, actual.Y, eps, msgAndArgs...)
	assert.InDelta(t, expected.Z, actual.Z, eps, msgAndArgs...)
}

func assertMat4(t *testing.T, expected, actual Mat4) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, expected[i][j], actual[i][j], eps, "[%d][%d]", i, j)
		}
	}
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))
	assert.Equal(t, Vec3Front, Vec3Right.Cross(Vec3Up))
	assert.Equal(t, NewVec3(1, 2, 3), v1.Min(v2))
	assert.Equal(t, NewVec3(4, 5, 6), v2.Max(v1))
	assert.Equal(t, [3]float32{1, 2, 3}, v1.Array())
}

func TestVec3Normalize(t *testing.T) {
	assert.Equal(t, NewVec3(1, 0, 0), NewVec3(3, 0, 0).Normalize())
	assert.InDelta(t, 1, NewVec3(1, 2, 3).Normalize().Length(), eps)
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)
	assert.Equal(t, [4]float32{1, 2, 3, 1}, m[3])
	assert.Equal(t, translation, NewVec4(0, 0, 0, 1).MulMat(m).ToVec3())
}

func TestMat4IdentityMul(t *testing.T) {
	m := Mat4Translation(NewVec3(4, 5, 6)).Mul(Mat4Scale(NewVec3(2, 2, 2)))
	assert.Equal(t, m, m.Mul(Mat4Identity()))
	assert.Equal(t, m, Mat4Identity().Mul(m))
}

func TestQuaternionRotation(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
	assertVec3(t, NewVec3(0, 0, -1), q.RotateVector(Vec3Right))
}

func TestQuaternionMatchesMatrix(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(1, 1, 0), 0.7)
	v := NewVec3(0.3, -2, 5)
	assertVec3(t, q.RotateVector(v), q.ToMat4().MulVec3(v))
}

func TestQuaternionFromEulerMatchesMat4Rotation(t *testing.T) {
	cases := []Vec3{
		{X: 0.2, Y: -0.2, Z: 0.2},
		{X: 0.1, Y: 0, Z: 0},
		{X: 0, Y: 1.3, Z: 0},
		{X: 0, Y: 0, Z: -0.9},
		{X: 1.1, Y: 0.4, Z: -2.3},
	}
	for _, euler := range cases {
		q := QuaternionFromEuler(euler)
		assert.InDelta(t, 1, q.X*q.X+q.Y*q.Y+q.Z*q.Z+q.W*q.W, eps)
		assertMat4(t, Mat4Rotation(euler), q.ToMat4())
	}
}

func TestMat4TRSOrder(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Front, math32.Pi/2)
	m := Mat4TRS(NewVec3(10, 0, 0), q, NewVec3(2, 2, 2))

	// (1,0,0) scaled to (2,0,0), rotated 90° about Z to (0,2,0), then moved.
	assertVec3(t, NewVec3(10, 2, 0), m.MulVec3(Vec3Right))
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(math32.Pi/4, 16.0/9.0, 0.1, 100)
	assert.NotZero(t, m[0][0])
	assert.NotZero(t, m[1][1])
	assert.Equal(t, float32(-1), m[2][3])

	// A point on the near plane maps to NDC depth -1.
	p := m.MulVec3(NewVec3(0, 0, -0.1))
	assert.InDelta(t, -1, p.Z, 1e-4)
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	m := Mat4LookAt(eye, Vec3Zero, Vec3Up)
	assertVec3(t, Vec3Zero, m.MulVec3(eye))
	assertVec3(t, NewVec3(0, 0, -5), m.MulVec3(Vec3Zero))
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)
	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Rotation(NewVec3(0.2, -0.2, 0.2))
	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
