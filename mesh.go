package skyview

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/chewxy/math32"
)

// ErrUnsupportedMeshFormat is returned by LoadMesh for file extensions it has no decoder for.
var ErrUnsupportedMeshFormat = errors.New("unsupported mesh format")

// Vertex is one corner of a triangle. UV only uses X and Y; Z is always 0.
type Vertex struct {
	Position Vector3
	UV       Vector3
	Normal   Vector3
}

// MeshData is de-indexed triangle geometry: every three Indices form a triangle. Loaded meshes satisfy
// Indices[i] == i; the static tables share vertices between triangles.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// Clone returns a deep copy of the MeshData.
func (mesh *MeshData) Clone() *MeshData {
	return &MeshData{
		Vertices: append([]Vertex(nil), mesh.Vertices...),
		Indices:  append([]uint32(nil), mesh.Indices...),
	}
}

// TriangleCount returns the number of triangles described by the index list.
func (mesh *MeshData) TriangleCount() int {
	return len(mesh.Indices) / 3
}

// Dimensions returns the minimum and maximum corners of the mesh's vertex positions.
func (mesh *MeshData) Dimensions() Dimensions {

	if len(mesh.Vertices) == 0 {
		return Dimensions{}
	}

	dim := Dimensions{Min: mesh.Vertices[0].Position, Max: mesh.Vertices[0].Position}

	for _, v := range mesh.Vertices[1:] {
		p := v.Position
		dim.Min = Vector3{math32.Min(dim.Min.X, p.X), math32.Min(dim.Min.Y, p.Y), math32.Min(dim.Min.Z, p.Z)}
		dim.Max = Vector3{math32.Max(dim.Max.X, p.X), math32.Max(dim.Max.Y, p.Y), math32.Max(dim.Max.Z, p.Z)}
	}

	return dim

}

// Dimensions represents the minimum and maximum spatial extent of a mesh.
type Dimensions struct {
	Min, Max Vector3
}

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() Vector3 {
	return dim.Min.Add(dim.Max).Scale(0.5)
}

// MaxSpan returns the maximum span out of width, height, and depth.
func (dim Dimensions) MaxSpan() float32 {
	size := dim.Max.Sub(dim.Min)
	return math32.Max(math32.Max(size.X, size.Y), size.Z)
}

var cubeUVs = [4]Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}

// Four corners per face, in the same order as cubeUVs.
var cubeFaces = [6][4]Vector3{
	{{-0.5, 1, -0.5}, {0.5, 1, -0.5}, {-0.5, 0, -0.5}, {0.5, 0, -0.5}}, // front
	{{0.5, 1, -0.5}, {0.5, 1, 0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}},     // right
	{{0.5, 1, 0.5}, {-0.5, 1, 0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5}},     // back
	{{-0.5, 1, 0.5}, {-0.5, 1, -0.5}, {-0.5, 0, 0.5}, {-0.5, 0, -0.5}}, // left
	{{-0.5, 1, 0.5}, {0.5, 1, 0.5}, {-0.5, 1, -0.5}, {0.5, 1, -0.5}},   // top
	{{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {-0.5, 0, 0.5}, {0.5, 0, 0.5}},   // bottom
}

var skyboxCorners = [8]Vector3{
	{-1, -1, -1},
	{-1, -1, 1},
	{-1, 1, -1},
	{-1, 1, 1},
	{1, -1, -1},
	{1, -1, 1},
	{1, 1, -1},
	{1, 1, 1},
}

// Wound to face inward, so the box is visible from the inside.
var skyboxIndices = [36]uint32{
	3, 7, 5, 5, 1, 3,
	7, 6, 4, 4, 5, 7,
	6, 2, 0, 0, 4, 6,
	2, 3, 1, 1, 0, 2,
	2, 6, 7, 7, 3, 2,
	5, 4, 0, 0, 1, 5,
}

// CubeMesh returns a new copy of the unit cube: 1 unit wide, sitting on the origin with its top at Y = 1. Each face
// has its own four vertices so it carries a full 0 to 1 UV square.
func CubeMesh() *MeshData {

	mesh := &MeshData{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}

	for _, face := range cubeFaces {
		base := uint32(len(mesh.Vertices))
		for i, corner := range face {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: corner, UV: cubeUVs[i], Normal: Vector3{1, 1, 1}})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+3, base+3, base+2, base)
	}

	return mesh

}

// SkyboxMesh returns a new copy of the skybox: a 2 unit cube centered on the origin, carrying positions only.
func SkyboxMesh() *MeshData {

	mesh := &MeshData{
		Vertices: make([]Vertex, len(skyboxCorners)),
		Indices:  append([]uint32(nil), skyboxIndices[:]...),
	}

	for i, corner := range skyboxCorners {
		mesh.Vertices[i].Position = corner
	}

	return mesh

}

// LoadMesh reads a mesh from the filesystem given, choosing a decoder by file extension: .obj for Wavefront OBJ, and
// .gltf or .glb for glTF.
func LoadMesh(fsys fs.FS, filePath string) (*MeshData, error) {

	ext := strings.ToLower(path.Ext(filePath))

	switch ext {
	case ".obj", ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("%s: %w", filePath, ErrUnsupportedMeshFormat)
	}

	file, err := fsys.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var mesh *MeshData

	if ext == ".obj" {
		mesh, err = DecodeOBJ(file)
	} else {
		mesh, err = DecodeGLTF(file)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	return mesh, nil

}
