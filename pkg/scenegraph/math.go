package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Mul(1 / l)
}

// flatNormals assigns each vertex the normal of the last face touching it.
func flatNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := positions[indices[i]], positions[indices[i+1]], positions[indices[i+2]]
		n := safeNormalize(b.Sub(a).Cross(c.Sub(a)))
		normals[indices[i]] = n
		normals[indices[i+1]] = n
		normals[indices[i+2]] = n
	}
	return normals
}
