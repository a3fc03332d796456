package skyview

import (
	"github.com/chewxy/math32"
)

// WorldRight represents a unit vector in the global direction of WorldRight on skyview's left-handed coordinate system (+X).
var WorldRight = Vector3{X: 1}

// WorldUp represents a unit vector in the global direction of WorldUp (+Y).
var WorldUp = Vector3{Y: 1}

// WorldForward represents a unit vector in the global direction of WorldForward, away from a default camera (+Z).
var WorldForward = Vector3{Z: 1}

// Vector3 represents a 3D Vector, which can be used for positions, directions, texture coordinates and normals.
// Any Vector3 functions that modify the calling Vector3 return copies of the modified Vector3, meaning you can do method-chaining easily.
type Vector3 struct {
	X float32 `toml:"x" yaml:"x"`
	Y float32 `toml:"y" yaml:"y"`
	Z float32 `toml:"z" yaml:"z"`
}

// Vector4 is a Vector3 with a W component, used for homogeneous coordinates and matrix rows.
type Vector4 struct {
	X, Y, Z, W float32
}

// NewVector3 creates a new Vector3 with the specified x, y, and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Scale returns a copy of the Vector3 with every component multiplied by the scalar.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// Cross returns a new Vector3, indicating the cross product of the calling Vector3 and the provided Other Vector3.
func (vec Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: vec.Y*other.Z - other.Y*vec.Z,
		Y: vec.Z*other.X - other.Z*vec.X,
		Z: vec.X*other.Y - other.X*vec.Y,
	}
}

// Dot returns the dot product of a Vector3 and another Vector3.
func (vec Vector3) Dot(other Vector3) float32 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// Invert returns a copy of the Vector3 with all components inverted.
func (vec Vector3) Invert() Vector3 {
	return Vector3{X: -vec.X, Y: -vec.Y, Z: -vec.Z}
}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.Dot(vec))
}

// Unit returns a copy of the Vector3, normalized (set to be of unit length). A zero Vector3 stays zero.
func (vec Vector3) Unit() Vector3 {
	l := vec.Magnitude()
	if l < 1e-8 {
		return vec
	}
	return vec.Scale(1 / l)
}

// Equals returns true if the two Vectors are close enough in all values.
func (vec Vector3) Equals(other Vector3) bool {
	eps := float32(1e-6)
	return math32.Abs(vec.X-other.X) <= eps && math32.Abs(vec.Y-other.Y) <= eps && math32.Abs(vec.Z-other.Z) <= eps
}

// Vector3 drops the W component.
func (vec Vector4) Vector3() Vector3 {
	return Vector3{X: vec.X, Y: vec.Y, Z: vec.Z}
}
