package skyview

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Matrix4 represents a 4x4 matrix for translation, scale, and rotation. A Matrix4 in skyview is row-major and uses row
// vectors: the X axis is matrix[0], the translation lives in matrix[3], and a.Mult(b) applies a first, then b.
type Matrix4 [4][4]float32

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewMatrix4Translate returns a new identity Matrix4, but with the x, y, and z translation components set as provided.
func NewMatrix4Translate(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[3][0] = x
	mat[3][1] = y
	mat[3][2] = z
	return mat
}

// NewMatrix4Scale returns a new identity Matrix4, but with the scale components set as provided. 1, 1, 1 is the default.
func NewMatrix4Scale(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[0][0] = x
	mat[1][1] = y
	mat[2][2] = z
	return mat
}

// NewMatrix4Rotate returns a new Matrix4 designed to rotate by the angle given (in radians) along the axis given [x, y, z].
// Looking down the axis towards the origin, positive angles rotate clockwise (left-handed).
func NewMatrix4Rotate(x, y, z, angle float32) Matrix4 {

	// Default to spinning on +Y axis if there is no valid axis
	if x == 0 && y == 0 && z == 0 {
		y = 1
	}

	mat := NewMatrix4()
	vector := Vector3{X: x, Y: y, Z: z}.Unit()
	s := math32.Sin(angle)
	c := math32.Cos(angle)
	m := 1 - c

	mat[0][0] = m*vector.X*vector.X + c
	mat[0][1] = m*vector.X*vector.Y + vector.Z*s
	mat[0][2] = m*vector.Z*vector.X - vector.Y*s

	mat[1][0] = m*vector.X*vector.Y - vector.Z*s
	mat[1][1] = m*vector.Y*vector.Y + c
	mat[1][2] = m*vector.Y*vector.Z + vector.X*s

	mat[2][0] = m*vector.Z*vector.X + vector.Y*s
	mat[2][1] = m*vector.Y*vector.Z - vector.X*s
	mat[2][2] = m*vector.Z*vector.Z + c

	return mat

}

// NewMatrix4RotateX returns a rotation about the +X axis.
func NewMatrix4RotateX(angle float32) Matrix4 { return NewMatrix4Rotate(1, 0, 0, angle) }

// NewMatrix4RotateY returns a rotation about the +Y axis.
func NewMatrix4RotateY(angle float32) Matrix4 { return NewMatrix4Rotate(0, 1, 0, angle) }

// NewMatrix4RotateZ returns a rotation about the +Z axis.
func NewMatrix4RotateZ(angle float32) Matrix4 { return NewMatrix4Rotate(0, 0, 1, angle) }

// Transposed transposes a Matrix4, switching the Matrix from being Row Major to being Column Major. For orthonormalized Matrices (matrices
// that have rows that are normalized (having a length of 1), like rotation matrices), this is equivalent to inverting it.
func (matrix Matrix4) Transposed() Matrix4 {

	new := NewMatrix4()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			new[i][j] = matrix[j][i]
		}
	}

	return new

}

// Inverted returns an inverted version of the Matrix4, computed with cofactors. A singular Matrix4 produces non-finite values.
func (matrix Matrix4) Inverted() Matrix4 {

	a2323 := matrix[2][2]*matrix[3][3] - matrix[2][3]*matrix[3][2]
	a1323 := matrix[2][1]*matrix[3][3] - matrix[2][3]*matrix[3][1]
	a1223 := matrix[2][1]*matrix[3][2] - matrix[2][2]*matrix[3][1]
	a0323 := matrix[2][0]*matrix[3][3] - matrix[2][3]*matrix[3][0]
	a0223 := matrix[2][0]*matrix[3][2] - matrix[2][2]*matrix[3][0]
	a0123 := matrix[2][0]*matrix[3][1] - matrix[2][1]*matrix[3][0]
	a2313 := matrix[1][2]*matrix[3][3] - matrix[1][3]*matrix[3][2]
	a1313 := matrix[1][1]*matrix[3][3] - matrix[1][3]*matrix[3][1]
	a1213 := matrix[1][1]*matrix[3][2] - matrix[1][2]*matrix[3][1]
	a2312 := matrix[1][2]*matrix[2][3] - matrix[1][3]*matrix[2][2]
	a1312 := matrix[1][1]*matrix[2][3] - matrix[1][3]*matrix[2][1]
	a1212 := matrix[1][1]*matrix[2][2] - matrix[1][2]*matrix[2][1]
	a0313 := matrix[1][0]*matrix[3][3] - matrix[1][3]*matrix[3][0]
	a0213 := matrix[1][0]*matrix[3][2] - matrix[1][2]*matrix[3][0]
	a0312 := matrix[1][0]*matrix[2][3] - matrix[1][3]*matrix[2][0]
	a0212 := matrix[1][0]*matrix[2][2] - matrix[1][2]*matrix[2][0]
	a0113 := matrix[1][0]*matrix[3][1] - matrix[1][1]*matrix[3][0]
	a0112 := matrix[1][0]*matrix[2][1] - matrix[1][1]*matrix[2][0]

	det := matrix[0][0]*(matrix[1][1]*a2323-matrix[1][2]*a1323+matrix[1][3]*a1223) -
		matrix[0][1]*(matrix[1][0]*a2323-matrix[1][2]*a0323+matrix[1][3]*a0223) +
		matrix[0][2]*(matrix[1][0]*a1323-matrix[1][1]*a0323+matrix[1][3]*a0123) -
		matrix[0][3]*(matrix[1][0]*a1223-matrix[1][1]*a0223+matrix[1][2]*a0123)

	det = 1 / det

	m := NewMatrix4()

	m[0][0] = det * (matrix[1][1]*a2323 - matrix[1][2]*a1323 + matrix[1][3]*a1223)
	m[0][1] = det * -(matrix[0][1]*a2323 - matrix[0][2]*a1323 + matrix[0][3]*a1223)
	m[0][2] = det * (matrix[0][1]*a2313 - matrix[0][2]*a1313 + matrix[0][3]*a1213)
	m[0][3] = det * -(matrix[0][1]*a2312 - matrix[0][2]*a1312 + matrix[0][3]*a1212)
	m[1][0] = det * -(matrix[1][0]*a2323 - matrix[1][2]*a0323 + matrix[1][3]*a0223)
	m[1][1] = det * (matrix[0][0]*a2323 - matrix[0][2]*a0323 + matrix[0][3]*a0223)
	m[1][2] = det * -(matrix[0][0]*a2313 - matrix[0][2]*a0313 + matrix[0][3]*a0213)
	m[1][3] = det * (matrix[0][0]*a2312 - matrix[0][2]*a0312 + matrix[0][3]*a0212)
	m[2][0] = det * (matrix[1][0]*a1323 - matrix[1][1]*a0323 + matrix[1][3]*a0123)
	m[2][1] = det * -(matrix[0][0]*a1323 - matrix[0][1]*a0323 + matrix[0][3]*a0123)
	m[2][2] = det * (matrix[0][0]*a1313 - matrix[0][1]*a0313 + matrix[0][3]*a0113)
	m[2][3] = det * -(matrix[0][0]*a1312 - matrix[0][1]*a0312 + matrix[0][3]*a0112)
	m[3][0] = det * -(matrix[1][0]*a1223 - matrix[1][1]*a0223 + matrix[1][2]*a0123)
	m[3][1] = det * (matrix[0][0]*a1223 - matrix[0][1]*a0223 + matrix[0][2]*a0123)
	m[3][2] = det * -(matrix[0][0]*a1213 - matrix[0][1]*a0213 + matrix[0][2]*a0113)
	m[3][3] = det * (matrix[0][0]*a1212 - matrix[0][1]*a0212 + matrix[0][2]*a0112)

	return m

}

// Mult multiplies a Matrix4 by another provided Matrix4 - this effectively combines them, applying the calling
// Matrix4 first.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {

	var newMat Matrix4

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			newMat[r][c] = matrix[r][0]*other[0][c] + matrix[r][1]*other[1][c] + matrix[r][2]*other[2][c] + matrix[r][3]*other[3][c]
		}
	}

	return newMat

}

// MultVec multiplies the vector provided by the Matrix4, giving a vector that has been rotated, scaled, or translated as desired.
func (matrix Matrix4) MultVec(vect Vector3) Vector3 {

	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
	}

}

// MultVecW multiplies the vector provided by the Matrix4, including the fourth (W) component.
func (matrix Matrix4) MultVecW(vect Vector3) Vector4 {

	return Vector4{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
		W: matrix[0][3]*vect.X + matrix[1][3]*vect.Y + matrix[2][3]*vect.Z + matrix[3][3],
	}

}

// Translation returns the translation row of the Matrix4.
func (matrix Matrix4) Translation() Vector3 {
	return Vector3{X: matrix[3][0], Y: matrix[3][1], Z: matrix[3][2]}
}

// SetTranslation overwrites the translation row of the Matrix4, leaving the W component alone.
func (matrix *Matrix4) SetTranslation(vec Vector3) {
	matrix[3][0] = vec.X
	matrix[3][1] = vec.Y
	matrix[3][2] = vec.Z
}

// Row returns the indiced row from the Matrix4 as a Vector4.
func (matrix Matrix4) Row(rowIndex int) Vector4 {
	return Vector4{
		X: matrix[rowIndex][0],
		Y: matrix[rowIndex][1],
		Z: matrix[rowIndex][2],
		W: matrix[rowIndex][3],
	}
}

// SetRow sets the Matrix4 with the row in rowIndex set to the 4D vector passed.
func (matrix *Matrix4) SetRow(rowIndex int, vec Vector4) {
	matrix[rowIndex][0] = vec.X
	matrix[rowIndex][1] = vec.Y
	matrix[rowIndex][2] = vec.Z
	matrix[rowIndex][3] = vec.W
}

// Equals returns true if the matrix equals the same values in the provided Other Matrix4.
func (matrix Matrix4) Equals(other Matrix4) bool {

	eps := float32(0.0001) // epsilon floating point error value
	for i := 0; i < len(matrix); i++ {
		for j := 0; j < len(matrix[i]); j++ {
			if math32.Abs(matrix[i][j]-other[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

var identityMatrix = NewMatrix4()

// IsIdentity returns true if the matrix is an unmodified identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(identityMatrix)
}

// ToFloats returns the Matrix4 as a flat array in row-major order.
func (matrix Matrix4) ToFloats() [16]float32 {
	var out [16]float32
	for r := range matrix {
		for c := range matrix[r] {
			out[r*4+c] = matrix[r][c]
		}
	}
	return out
}

func (matrix Matrix4) String() string {
	s := "{"
	for i, y := range matrix {
		for _, x := range y {
			s += strconv.FormatFloat(float64(x), 'f', -1, 32) + ", "
		}
		if i < len(matrix)-1 {
			s += "\n"
		}
	}
	s += "}"
	return s
}

// NewLookAtMatrix generates a camera-to-world Matrix4 for an eye at from looking towards to, with up as the upward
// vector (usually +Y). The rotation rows are the eye's right, up and forward axes, and the translation row is from.
// The result is the inverse of a left-handed view matrix built from the same arguments.
func NewLookAtMatrix(from, to, up Vector3) Matrix4 {

	// If from and to are the same, then an identity rotation should be a sensible default
	if from.Equals(to) {
		return NewMatrix4Translate(from.X, from.Y, from.Z)
	}

	z := to.Sub(from).Unit()

	up = up.Unit()

	// If z == up, then the matrix will be unusable, so we sub up out with another angle
	if z.Equals(up) || z.Equals(up.Invert()) {
		if !up.Equals(WorldRight) {
			up = WorldRight
		} else {
			up = WorldForward
		}
	}

	x := up.Cross(z).Unit()
	y := z.Cross(x)
	return Matrix4{
		{x.X, x.Y, x.Z, 0},
		{y.X, y.Y, y.Z, 0},
		{z.X, z.Y, z.Z, 0},
		{from.X, from.Y, from.Z, 1},
	}
}

// NewProjectionPerspectiveLH generates a left-handed perspective projection Matrix4 with a depth range of 0 to 1.
// fovy is the vertical field of view in radians and aspect is the viewport width divided by its height.
func NewProjectionPerspectiveLH(fovy, aspect, near, far float32) Matrix4 {

	h := 1 / math32.Tan(fovy/2)
	w := h / aspect
	depth := far / (far - near)

	return Matrix4{
		{w, 0, 0, 0},
		{0, h, 0, 0},
		{0, 0, depth, 1},
		{0, 0, -depth * near, 0},
	}

}
