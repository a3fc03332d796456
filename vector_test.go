package skyview

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkVectorUnit(b *testing.B) {

	b.ReportAllocs()

	vecs := make([]Vector3, 0, 100)
	for i := 0; i < 100; i++ {
		vecs = append(vecs, Vector3{rand.Float32(), rand.Float32(), rand.Float32()})
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, v := range vecs {
			v.Unit()
		}
	}

}

func TestVectorCross(t *testing.T) {
	assert.True(t, WorldRight.Cross(WorldUp).Equals(WorldForward))
	assert.True(t, WorldUp.Cross(WorldForward).Equals(WorldRight))
}

func TestVectorUnit(t *testing.T) {

	for i := 0; i < 50; i++ {
		v := Vector3{rand.Float32()*10 + 0.1, rand.Float32() * -10, rand.Float32()}
		assert.InDelta(t, 1, v.Unit().Magnitude(), 1e-5)
	}

	assert.Equal(t, Vector3{}, Vector3{}.Unit())

}
