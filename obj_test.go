package skyview

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `# two triangles making a square
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestDecodeOBJ(t *testing.T) {

	mesh, err := DecodeOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 6)
	require.Len(t, mesh.Indices, 6)

	for i, index := range mesh.Indices {
		assert.Equal(t, uint32(i), index)
	}

	assert.Equal(t, Vector3{1, 0, 1}, mesh.Vertices[2].Position)
	assert.Equal(t, Vector3{0, 1, 0}, mesh.Vertices[4].Normal)

	// V is flipped.
	assert.Equal(t, Vector3{0, 1, 0}, mesh.Vertices[0].UV)
	assert.Equal(t, Vector3{1, 0, 0}, mesh.Vertices[2].UV)
	assert.Equal(t, Vector3{0, 0, 0}, mesh.Vertices[5].UV)

}

func TestDecodeOBJCounts(t *testing.T) {

	src := strings.Repeat("v 0 0 0\n", 3) + "vt 0 0\nvn 0 0 1\n" + strings.Repeat("f 1/1/1 2/1/1 3/1/1\n", 5)

	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 15)
	assert.Equal(t, 5, mesh.TriangleCount())

}

func TestDecodeOBJSkipsUnknownWords(t *testing.T) {

	src := "mtllib ground.mtl\no Ground\nv 0 0 0 # a comment with v 9 9 9 and f 1/1/1\nv 1 0 0\nv 0 1 0\n" +
		"vt 0.5 0.25\nvn 0 0 -1\nusemtl stone\ns off\nf 1/1/1 2/1/1 3/1/1\n"

	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, mesh.Vertices, 3)
	assert.InDelta(t, 0.75, mesh.Vertices[0].UV.Y, 1e-6)

}

func TestDecodeOBJIgnoresLineBreaksWithinRecords(t *testing.T) {

	src := "v 0 0\n0\nv 1 0 0 v 0 1 0\nvt 0 0 vn 0 0 1\nf 1/1/1\n2/1/1 3/1/1"

	mesh, err := DecodeOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 3)

}

func TestDecodeOBJEmpty(t *testing.T) {

	mesh, err := DecodeOBJ(strings.NewReader("# nothing here\n"))
	require.NoError(t, err)
	assert.Empty(t, mesh.Vertices)
	assert.Empty(t, mesh.Indices)

}

func TestDecodeOBJErrors(t *testing.T) {

	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\n"

	for _, test := range []struct {
		name string
		src  string
		err  error
		line string
	}{
		{"position only face", header + "f 1 2 3\n", ErrMalformedFace, "line 6"},
		{"missing uv", header + "f 1//1 2//1 3//1\n", ErrMalformedFace, "line 6"},
		{"short face", header + "f 1/1/1 2/1/1", ErrMalformedFace, "line 6"},
		{"word in face", header + "f 1/1/1 2/a/1 3/1/1\n", ErrMalformedFace, "line 6"},
		{"bad number", "v 0 zero 0\n", ErrMalformedRecord, "line 1"},
		{"short uv", "vt 0.5", ErrMalformedRecord, "line 1"},
		{"index zero", header + "f 0/1/1 2/1/1 3/1/1\n", ErrIndexOutOfRange, "line 6"},
		{"index past end", header + "\n\nf 1/1/1 2/1/1 4/1/1\n", ErrIndexOutOfRange, "line 8"},
		{"normal past end", header + "f 1/1/2 2/1/1 3/1/1\n", ErrIndexOutOfRange, "line 6"},
		{"negative index", header + "f -1/1/1 2/1/1 3/1/1\n", ErrIndexOutOfRange, "line 6"},
	} {
		t.Run(test.name, func(t *testing.T) {
			mesh, err := DecodeOBJ(strings.NewReader(test.src))
			assert.Nil(t, mesh)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.err)
			assert.Contains(t, err.Error(), test.line)
		})
	}

}

func TestLoadOBJFile(t *testing.T) {

	_, err := LoadOBJFile(filepath.Join(t.TempDir(), "missing.obj"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	mesh, err := LoadOBJFile(path)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 6)

	require.NoError(t, os.WriteFile(path, []byte("f 1/1/1"), 0o644))
	_, err = LoadOBJFile(path)
	assert.ErrorIs(t, err, ErrMalformedFace)
	assert.Contains(t, err.Error(), "quad.obj")

}

func BenchmarkDecodeOBJ(b *testing.B) {

	src := quadOBJ + strings.Repeat("f 1/1/1 2/2/1 3/3/1\n", 2000)

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))

	for i := 0; i < b.N; i++ {
		if _, err := DecodeOBJ(strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}

}
