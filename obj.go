package skyview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMalformedFace is returned when a face record doesn't hold exactly three position/uv/normal triples.
	ErrMalformedFace = errors.New("malformed face")
	// ErrMalformedRecord is returned when a v, vt, or vn record is missing numbers or has numbers that don't parse.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrIndexOutOfRange is returned when a face refers to a position, uv, or normal that was never declared.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// LoadOBJFile reads a Wavefront OBJ file from disk. See DecodeOBJ for the supported subset.
func LoadOBJFile(path string) (*MeshData, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mesh, err := DecodeOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mesh, nil

}

// DecodeOBJ reads a restricted Wavefront OBJ stream and returns de-indexed triangles, one vertex per face corner in
// file order.
//
// Only "v x y z", "vt u v", "vn x y z" and triangular "f p/t/n p/t/n p/t/n" records are understood. Texture V
// coordinates are flipped (v becomes 1 - v). Any other word is skipped on its own, and "#" skips the rest of its
// line. Indices are 1-based. On error no mesh is returned.
func DecodeOBJ(r io.Reader) (*MeshData, error) {

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := objDecoder{tokens: objTokenizer{src: data, line: 1}}

	if err := dec.parse(); err != nil {
		return nil, err
	}

	return dec.mesh()

}

type objCorner struct {
	position, uv, normal int
	line                 int
}

type objDecoder struct {
	tokens objTokenizer

	positions []Vector3
	uvs       []Vector3
	normals   []Vector3
	corners   []objCorner
}

func (dec *objDecoder) parse() error {

	for {

		word, line, ok := dec.tokens.next()
		if !ok {
			return nil
		}

		var err error

		switch word {
		case "v":
			var v Vector3
			v, err = dec.vector(3)
			dec.positions = append(dec.positions, v)
		case "vt":
			var v Vector3
			v, err = dec.vector(2)
			v.Y = 1 - v.Y
			dec.uvs = append(dec.uvs, v)
		case "vn":
			var v Vector3
			v, err = dec.vector(3)
			dec.normals = append(dec.normals, v)
		case "f":
			err = dec.face(line)
		}

		if err != nil {
			return fmt.Errorf("obj: line %d: %w", line, err)
		}

	}

}

// vector reads count numbers into the first components of a Vector3.
func (dec *objDecoder) vector(count int) (Vector3, error) {

	var values [3]float32

	for i := 0; i < count; i++ {
		word, _, ok := dec.tokens.next()
		if !ok {
			return Vector3{}, fmt.Errorf("%w: expected %d numbers", ErrMalformedRecord, count)
		}
		f, err := strconv.ParseFloat(word, 32)
		if err != nil {
			return Vector3{}, fmt.Errorf("%w: %q is not a number", ErrMalformedRecord, word)
		}
		values[i] = float32(f)
	}

	return Vector3{X: values[0], Y: values[1], Z: values[2]}, nil

}

func (dec *objDecoder) face(line int) error {

	for i := 0; i < 3; i++ {

		word, _, ok := dec.tokens.next()
		if !ok {
			return fmt.Errorf("%w: expected 3 corners", ErrMalformedFace)
		}

		parts := strings.Split(word, "/")
		if len(parts) != 3 {
			return fmt.Errorf("%w: corner %q is not position/uv/normal", ErrMalformedFace, word)
		}

		var idx [3]int
		for p, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("%w: corner %q is not position/uv/normal", ErrMalformedFace, word)
			}
			idx[p] = n
		}

		dec.corners = append(dec.corners, objCorner{position: idx[0], uv: idx[1], normal: idx[2], line: line})

	}

	return nil

}

func (dec *objDecoder) mesh() (*MeshData, error) {

	mesh := &MeshData{
		Vertices: make([]Vertex, 0, len(dec.corners)),
		Indices:  make([]uint32, 0, len(dec.corners)),
	}

	for _, c := range dec.corners {

		if c.position < 1 || c.position > len(dec.positions) ||
			c.uv < 1 || c.uv > len(dec.uvs) ||
			c.normal < 1 || c.normal > len(dec.normals) {
			return nil, fmt.Errorf("obj: line %d: %w: %d/%d/%d with %d positions, %d uvs, %d normals",
				c.line, ErrIndexOutOfRange, c.position, c.uv, c.normal, len(dec.positions), len(dec.uvs), len(dec.normals))
		}

		mesh.Indices = append(mesh.Indices, uint32(len(mesh.Vertices)))
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: dec.positions[c.position-1],
			UV:       dec.uvs[c.uv-1],
			Normal:   dec.normals[c.normal-1],
		})

	}

	return mesh, nil

}

// objTokenizer splits OBJ source into whitespace-separated words, tracking line numbers and dropping comments.
type objTokenizer struct {
	src  []byte
	pos  int
	line int
}

func (t *objTokenizer) next() (word string, line int, ok bool) {

	for t.pos < len(t.src) {

		c := t.src[t.pos]

		switch {
		case c == '\n':
			t.line++
			t.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			t.pos++
		case c == '#':
			for t.pos < len(t.src) && t.src[t.pos] != '\n' {
				t.pos++
			}
		default:
			start := t.pos
			for t.pos < len(t.src) && !isOBJSpace(t.src[t.pos]) && t.src[t.pos] != '#' {
				t.pos++
			}
			return string(t.src[start:t.pos]), t.line, true
		}

	}

	return "", t.line, false

}

func isOBJSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}
