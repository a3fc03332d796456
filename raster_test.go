package skyview

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConstants looks down +Z from the origin with a 90 degree field of view.
func testConstants() ModelViewProjection {
	return ModelViewProjection{
		Model:      NewMatrix4(),
		View:       NewMatrix4(),
		Projection: NewProjectionPerspectiveLH(math32.Pi/2, 1, 0.1, 100).Transposed(),
	}
}

var testViewport = Viewport{Width: 100, Height: 100, MaxDepth: 1}

func triangleVertices(a, b, c Vector3) []Vertex {
	return []Vertex{
		{Position: a, UV: Vector3{0, 0, 0}},
		{Position: b, UV: Vector3{0.5, 1, 0}},
		{Position: c, UV: Vector3{1, 0, 0}},
	}
}

func TestRasterizerProjectsTriangle(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)

	require.Len(t, r.triangles, 1)
	assert.Equal(t, RasterStats{Submitted: 1, Drawn: 1}, r.Stats)

	verts := r.triangles[0].verts

	assert.InDelta(t, 40, verts[0].DstX, 1e-3)
	assert.InDelta(t, 60, verts[0].DstY, 1e-3)
	assert.InDelta(t, 50, verts[1].DstX, 1e-3)
	assert.InDelta(t, 40, verts[1].DstY, 1e-3)
	assert.InDelta(t, 60, verts[2].DstX, 1e-3)
	assert.InDelta(t, 60, verts[2].DstY, 1e-3)

	// Attributes are divided by w so they interpolate with perspective.
	assert.InDelta(t, 0.2, verts[1].Custom3, 1e-5)
	assert.InDelta(t, 0.5*0.2, verts[1].Custom0, 1e-5)
	assert.InDelta(t, 1*0.2, verts[1].Custom1, 1e-5)

	assert.InDelta(t, 5, r.triangles[0].depth, 1e-4)

}

func TestRasterizerViewportOffset(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})
	vp := Viewport{X: 100, Width: 100, Height: 100, MaxDepth: 1}

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2}, 3, vp, attributeUV, 0)

	require.Len(t, r.triangles, 1)
	assert.InDelta(t, 140, r.triangles[0].verts[0].DstX, 1e-3)

}

func TestRasterizerCullsBackfaces(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 2, 1}, 3, testViewport, attributeUV, 0)

	assert.Empty(t, r.triangles)
	assert.Equal(t, 1, r.Stats.Culled)

}

func TestRasterizerDepthClipping(t *testing.T) {

	r := &rasterizer{}
	mvp := mvpMatrix(testConstants())

	behind := triangleVertices(Vector3{-1, -1, -5}, Vector3{0, 1, -5}, Vector3{1, -1, -5})
	r.addMesh(mvp, behind, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)

	offToTheSide := triangleVertices(Vector3{20, -1, 5}, Vector3{21, 1, 5}, Vector3{22, -1, 5})
	r.addMesh(mvp, offToTheSide, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)

	distant := triangleVertices(Vector3{-1, -1, 500}, Vector3{0, 1, 500}, Vector3{1, -1, 500})
	r.addMesh(mvp, distant, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)

	assert.Equal(t, 2, r.Stats.Culled)

	// Triangles off to the side are left to the viewport's clip rectangle.
	assert.Len(t, r.triangles, 1)
	assert.Equal(t, 1, r.Stats.Drawn)

}

func TestRasterizerClipsNearPlane(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, -1}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)

	assert.Equal(t, 1, r.Stats.Clipped)
	assert.Equal(t, 2, r.Stats.Drawn)

	for _, tri := range r.triangles {
		for _, v := range tri.verts {
			assert.Greater(t, v.Custom3, float32(0))
		}
	}

}

func TestRasterizerIndexOutOfRange(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 9}, 3, testViewport, attributeUV, 0)

	assert.Empty(t, r.triangles)
	assert.Equal(t, 1, r.Stats.Culled)

}

func TestRasterizerIndexCount(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	// Only the first triangle is asked for.
	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2, 0, 1, 2}, 3, testViewport, attributeUV, 0)
	assert.Equal(t, 1, r.Stats.Submitted)

	// Counts past the end of the index buffer are cut short.
	r.reset()
	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2}, 30, testViewport, attributeUV, 0)
	assert.Equal(t, 1, r.Stats.Submitted)

}

func TestRasterizerPositionAttribute(t *testing.T) {

	r := &rasterizer{}
	vertices := triangleVertices(Vector3{-1, -1, 5}, Vector3{0, 1, 5}, Vector3{1, -1, 5})

	r.addMesh(mvpMatrix(testConstants()), vertices, []uint32{0, 1, 2}, 3, testViewport, attributePosition, 0)

	require.Len(t, r.triangles, 1)
	v := r.triangles[0].verts[0]
	assert.InDelta(t, -1, v.Custom0/v.Custom3, 1e-4)
	assert.InDelta(t, -1, v.Custom1/v.Custom3, 1e-4)
	assert.InDelta(t, 5, v.Custom2/v.Custom3, 1e-4)

}

func TestRasterizerSortsBackToFront(t *testing.T) {

	r := &rasterizer{}
	mvp := mvpMatrix(testConstants())

	near := triangleVertices(Vector3{-1, -1, 2}, Vector3{0, 1, 2}, Vector3{1, -1, 2})
	far := triangleVertices(Vector3{-1, -1, 50}, Vector3{0, 1, 50}, Vector3{1, -1, 50})
	middle := triangleVertices(Vector3{-1, -1, 10}, Vector3{0, 1, 10}, Vector3{1, -1, 10})

	r.addMesh(mvp, near, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 0)
	r.addMesh(mvp, far, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 1)
	r.addMesh(mvp, middle, []uint32{0, 1, 2}, 3, testViewport, attributeUV, 2)

	sorted := r.sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, 1, sorted[0].batch)
	assert.Equal(t, 2, sorted[1].batch)
	assert.Equal(t, 0, sorted[2].batch)

}

func TestSkyboxVisibleFromInside(t *testing.T) {

	r := &rasterizer{}
	sky := SkyboxMesh()

	constants := testConstants()
	constants.Model = NewMatrix4Scale(10, 10, 10).Transposed()

	r.addMesh(mvpMatrix(constants), sky.Vertices, sky.Indices, len(sky.Indices), testViewport, attributePosition, 0)

	assert.NotEmpty(t, r.triangles)

	// The face straight ahead covers the middle of the viewport.
	covered := false
	for _, tri := range r.triangles {
		if pointInTriangle(50, 50, tri) {
			covered = true
		}
	}
	assert.True(t, covered)

}

func pointInTriangle(x, y float32, tri rasterTriangle) bool {
	sign := func(a, b [2]float32) float32 {
		return (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
	}
	var p [3][2]float32
	for i, v := range tri.verts {
		p[i] = [2]float32{v.DstX, v.DstY}
	}
	d0, d1, d2 := sign(p[0], p[1]), sign(p[1], p[2]), sign(p[2], p[0])
	return (d0 >= 0 && d1 >= 0 && d2 >= 0) || (d0 <= 0 && d1 <= 0 && d2 <= 0)
}

func BenchmarkRasterizerCube(b *testing.B) {

	r := &rasterizer{}
	cube := CubeMesh()
	constants := testConstants()
	constants.Model = NewMatrix4Translate(0, 0, 4).Transposed()
	mvp := mvpMatrix(constants)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.reset()
		for j := 0; j < 100; j++ {
			r.addMesh(mvp, cube.Vertices, cube.Indices, len(cube.Indices), testViewport, attributeUV, 0)
		}
		r.sorted()
	}

}
