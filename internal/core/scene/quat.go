package scene

import "corelith/internal/core/ecs"

func quatMul(a, b ecs.Rotation) ecs.Rotation {
	return ecs.Rotation{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// rotateVector applies q to v, using the standard q*v*q^-1 expansion for
// a unit quaternion (q^-1 == conjugate(q)).
func rotateVector(q ecs.Rotation, v ecs.Position) ecs.Position {
	ux, uy, uz := q.X, q.Y, q.Z
	uvx := uy*v.Z - uz*v.Y
	uvy := uz*v.X - ux*v.Z
	uvz := ux*v.Y - uy*v.X

	uuvx := uy*uvz - uz*uvy
	uuvy := uz*uvx - ux*uvz
	uuvz := ux*uvy - uy*uvx

	return ecs.Position{
		X: v.X + 2*(q.W*uvx+uuvx),
		Y: v.Y + 2*(q.W*uvy+uuvy),
		Z: v.Z + 2*(q.W*uvz+uuvz),
	}
}

// composeTransform combines a parent's world transform with a child's
// local one: rotate the local offset into the parent's orientation,
// translate by the parent's world position, and compose the rotations.
func composeTransform(parent WorldTransform, localPos ecs.Position, localRot ecs.Rotation) WorldTransform {
	rotated := rotateVector(parent.Rotation, localPos)
	return WorldTransform{
		Position: ecs.Position{
			X: parent.Position.X + rotated.X,
			Y: parent.Position.Y + rotated.Y,
			Z: parent.Position.Z + rotated.Z,
		},
		Rotation: quatMul(parent.Rotation, localRot),
	}
}
