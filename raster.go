package skyview

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// MaxTriangleCount is the most triangles a single DrawTrianglesShader call can take with 16-bit indices.
const MaxTriangleCount = 21845

// attributeSource picks the per-vertex value that's interpolated across a triangle and handed to the shader.
type attributeSource int

const (
	attributeUV       attributeSource = iota // texture coordinates
	attributePosition                        // object-space position, used as a direction by the sky
)

type clipVertex struct {
	pos  mgl32.Vec4
	attr mgl32.Vec3
}

func lerpClipVertex(a, b clipVertex, t float32) clipVertex {
	return clipVertex{
		pos:  a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		attr: a.attr.Add(b.attr.Sub(a.attr).Mul(t)),
	}
}

// rasterTriangle is a screen-space triangle ready for Ebitengine, tagged with the batch it's drawn with.
type rasterTriangle struct {
	verts [3]ebiten.Vertex
	depth float32
	batch int
}

// RasterStats counts what happened to the triangles submitted in a frame.
type RasterStats struct {
	Submitted int // Triangles handed in
	Culled    int // Rejected by frustum or backface tests
	Clipped   int // Split by the near plane
	Drawn     int // Emitted for drawing
}

// rasterizer turns indexed meshes into depth-sorted screen triangles.
type rasterizer struct {
	triangles []rasterTriangle
	bins      depthBins
	Stats     RasterStats
}

// reset clears the triangles of the previous frame, keeping allocated storage.
func (r *rasterizer) reset() {
	r.triangles = r.triangles[:0]
	r.Stats = RasterStats{}
}

// mvpMatrix composes transposed model, view and projection constants into one clip-space transform that maps column
// vectors, so mvp.Mul4x1(p) == p * model * view * projection for row vectors.
func mvpMatrix(constants ModelViewProjection) mgl32.Mat4 {
	model := mgl32.Mat4(constants.Model.Transposed().ToFloats())
	view := mgl32.Mat4(constants.View.Transposed().ToFloats())
	projection := mgl32.Mat4(constants.Projection.Transposed().ToFloats())
	return projection.Mul4(view).Mul4(model)
}

// addMesh projects count indices worth of triangles into the viewport.
func (r *rasterizer) addMesh(mvp mgl32.Mat4, vertices []Vertex, indices []uint32, count int, vp Viewport, source attributeSource, batch int) {

	if count > len(indices) {
		count = len(indices)
	}

	var poly [4]clipVertex

	for i := 0; i+2 < count; i += 3 {

		r.Stats.Submitted++

		var tri [3]clipVertex
		valid := true

		for c := 0; c < 3; c++ {
			index := indices[i+c]
			if int(index) >= len(vertices) {
				valid = false
				break
			}
			v := vertices[index]
			tri[c].pos = mvp.Mul4x1(mgl32.Vec4{v.Position.X, v.Position.Y, v.Position.Z, 1})
			if source == attributePosition {
				tri[c].attr = mgl32.Vec3{v.Position.X, v.Position.Y, v.Position.Z}
			} else {
				tri[c].attr = mgl32.Vec3{v.UV.X, v.UV.Y, 0}
			}
		}

		if !valid || beyondFar(tri) {
			r.Stats.Culled++
			continue
		}

		n := clipNear(tri, &poly)
		if n == 0 {
			r.Stats.Culled++
			continue
		}
		if n == 4 || !(tri[0].pos.Z() >= 0 && tri[1].pos.Z() >= 0 && tri[2].pos.Z() >= 0) {
			r.Stats.Clipped++
		}

		for f := 1; f+1 < n; f++ {
			r.emit(poly[0], poly[f], poly[f+1], vp, batch)
		}

	}

}

// beyondFar returns true if every corner lies past the far plane. Like the near clip this is the depth clipping a
// GPU clipper does; x and y are left to the viewport's clip rectangle.
func beyondFar(tri [3]clipVertex) bool {
	for _, v := range tri {
		if v.pos.Z() <= v.pos.W() {
			return false
		}
	}
	return true
}

// clipNear clips a triangle against the z >= 0 near plane, writing the resulting polygon (0, 3 or 4 corners) into out.
func clipNear(tri [3]clipVertex, out *[4]clipVertex) int {

	n := 0

	for i := 0; i < 3; i++ {

		a := tri[i]
		b := tri[(i+1)%3]
		aIn := a.pos.Z() >= 0
		bIn := b.pos.Z() >= 0

		if aIn {
			out[n] = a
			n++
		}

		if aIn != bIn {
			t := a.pos.Z() / (a.pos.Z() - b.pos.Z())
			out[n] = lerpClipVertex(a, b, t)
			n++
		}

	}

	return n

}

func (r *rasterizer) emit(a, b, c clipVertex, vp Viewport, batch int) {

	var tri rasterTriangle

	for i, v := range [3]clipVertex{a, b, c} {

		x, y, _, w := v.pos.Elem()
		if w <= 0 {
			r.Stats.Culled++
			return
		}

		invW := 1 / w

		tri.verts[i] = ebiten.Vertex{
			DstX:    vp.X + (x*invW+1)*0.5*vp.Width,
			DstY:    vp.Y + (1-y*invW)*0.5*vp.Height,
			ColorR:  1,
			ColorG:  1,
			ColorB:  1,
			ColorA:  1,
			Custom0: v.attr[0] * invW,
			Custom1: v.attr[1] * invW,
			Custom2: v.attr[2] * invW,
			Custom3: invW,
		}

		tri.depth += w / 3

	}

	// Front faces wind clockwise on screen; with Y pointing down that's a positive cross product.
	ax := tri.verts[1].DstX - tri.verts[0].DstX
	ay := tri.verts[1].DstY - tri.verts[0].DstY
	bx := tri.verts[2].DstX - tri.verts[0].DstX
	by := tri.verts[2].DstY - tri.verts[0].DstY

	if ax*by-ay*bx <= 0 {
		r.Stats.Culled++
		return
	}

	tri.batch = batch
	r.triangles = append(r.triangles, tri)
	r.Stats.Drawn++

}

// sorted returns the triangles ordered back to front.
func (r *rasterizer) sorted() []rasterTriangle {
	return r.bins.sort(r.triangles)
}

// depthBins is a bucket sort over triangle depth: triangles are dropped into evenly sized bins spanning the frame's
// depth range, and read back from the farthest bin. Triangles in the same bin keep their submission order.
type depthBins struct {
	bins   [][]int
	output []rasterTriangle
}

const depthBinCount = 512

func (d *depthBins) sort(tris []rasterTriangle) []rasterTriangle {

	if d.bins == nil {
		d.bins = make([][]int, depthBinCount)
	}

	for i := range d.bins {
		d.bins[i] = d.bins[i][:0]
	}

	d.output = d.output[:0]

	if len(tris) == 0 {
		return d.output
	}

	minDepth, maxDepth := tris[0].depth, tris[0].depth
	for _, t := range tris[1:] {
		if t.depth < minDepth {
			minDepth = t.depth
		}
		if t.depth > maxDepth {
			maxDepth = t.depth
		}
	}

	rangeDiff := maxDepth - minDepth
	if rangeDiff == 0 {
		rangeDiff = 0.001
	}

	for i, t := range tris {
		bin := int((t.depth - minDepth) / rangeDiff * depthBinCount)
		if bin >= depthBinCount {
			bin = depthBinCount - 1
		}
		if bin < 0 {
			bin = 0
		}
		d.bins[bin] = append(d.bins[bin], i)
	}

	for b := depthBinCount - 1; b >= 0; b-- {
		for _, i := range d.bins[b] {
			d.output = append(d.output, tris[i])
		}
	}

	return d.output

}
