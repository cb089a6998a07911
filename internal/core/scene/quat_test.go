package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"corelith/internal/core/ecs"
)

func TestRotateVectorByIdentityIsNoop(t *testing.T) {
	v := ecs.Position{X: 1, Y: 2, Z: 3}
	got := rotateVector(ecs.IdentityRotation, v)
	assert.Equal(t, v, got)
}

func TestQuatMulWithIdentityIsNoop(t *testing.T) {
	r := ecs.Rotation{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}
	assert.Equal(t, r, quatMul(ecs.IdentityRotation, r))
}

func TestComposeTransformAtIdentityParentIsLocal(t *testing.T) {
	parent := WorldTransform{Rotation: ecs.IdentityRotation}
	local := ecs.Position{X: 5, Y: 0, Z: 0}
	got := composeTransform(parent, local, ecs.IdentityRotation)
	assert.Equal(t, local, got.Position)
}
