package skyview

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoMesh is returned when a glTF document holds no triangle geometry.
var ErrNoMesh = errors.New("no triangle mesh")

// LoadGLTFFile loads the first mesh of a .gltf or .glb file from the filepath given. Buffers must be embedded (binary
// chunk or data URI).
func LoadGLTFFile(path string) (*MeshData, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mesh, err := DecodeGLTF(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mesh, nil

}

// DecodeGLTF reads a glTF document and returns the triangle primitives of its first mesh, de-indexed into the same
// layout DecodeOBJ produces: texture V coordinates are flipped and Indices[i] == i. Missing texture coordinates or
// normals are left zero.
func DecodeGLTF(r io.Reader) (*MeshData, error) {

	doc := new(gltf.Document)

	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}

	if len(doc.Meshes) == 0 {
		return nil, fmt.Errorf("gltf: %w", ErrNoMesh)
	}

	out := &MeshData{}

	for _, prim := range doc.Meshes[0].Primitives {

		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		if err := appendGLTFPrimitive(out, doc, prim); err != nil {
			return nil, fmt.Errorf("gltf: mesh %q: %w", doc.Meshes[0].Name, err)
		}

	}

	if len(out.Indices) == 0 {
		return nil, fmt.Errorf("gltf: %w", ErrNoMesh)
	}

	return out, nil

}

func gltfAccessor[I int | uint32](doc *gltf.Document, index I) (*gltf.Accessor, error) {
	i := int(index)
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", i, ErrIndexOutOfRange)
	}
	return doc.Accessors[i], nil
}

func appendGLTFPrimitive(out *MeshData, doc *gltf.Document, prim *gltf.Primitive) error {

	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("primitive has no %s attribute", gltf.POSITION)
	}

	accessor, err := gltfAccessor(doc, posIndex)
	if err != nil {
		return err
	}

	positions, err := modeler.ReadPosition(doc, accessor, [][3]float32{})
	if err != nil {
		return err
	}

	var uvs [][2]float32

	if uvIndex, exists := prim.Attributes[gltf.TEXCOORD_0]; exists {
		if accessor, err = gltfAccessor(doc, uvIndex); err != nil {
			return err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, accessor, [][2]float32{}); err != nil {
			return err
		}
	}

	var normals [][3]float32

	if normalIndex, exists := prim.Attributes[gltf.NORMAL]; exists {
		if accessor, err = gltfAccessor(doc, normalIndex); err != nil {
			return err
		}
		if normals, err = modeler.ReadNormal(doc, accessor, [][3]float32{}); err != nil {
			return err
		}
	}

	var indices []uint32

	if prim.Indices != nil {
		if accessor, err = gltfAccessor(doc, *prim.Indices); err != nil {
			return err
		}
		if indices, err = modeler.ReadIndices(doc, accessor, []uint32{}); err != nil {
			return err
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form whole triangles", len(indices))
	}

	for _, index := range indices {

		if int(index) >= len(positions) {
			return fmt.Errorf("vertex %d of %d: %w", index, len(positions), ErrIndexOutOfRange)
		}

		v := Vertex{}
		p := positions[index]
		v.Position = Vector3{X: p[0], Y: p[1], Z: p[2]}

		if int(index) < len(uvs) {
			v.UV = Vector3{X: uvs[index][0], Y: 1 - uvs[index][1]}
		}

		if int(index) < len(normals) {
			n := normals[index]
			v.Normal = Vector3{X: n[0], Y: n[1], Z: n[2]}
		}

		out.Indices = append(out.Indices, uint32(len(out.Vertices)))
		out.Vertices = append(out.Vertices, v)

	}

	return nil

}
