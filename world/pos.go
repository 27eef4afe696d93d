package world

import (
	"fmt"
	"math"
)

// BlockPos is the integer coordinate of a single block.
type BlockPos struct {
	X, Y, Z int32
}

func (pos BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", pos.X, pos.Y, pos.Z)
}

func (pos BlockPos) Offset(dx, dy, dz int32) BlockPos {
	return BlockPos{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}
}

// InDirection returns the neighbouring block one step towards dir.
func (pos BlockPos) InDirection(dir Direction) BlockPos {
	switch dir {
	case North:
		return pos.Offset(0, 0, -1)
	case South:
		return pos.Offset(0, 0, 1)
	case East:
		return pos.Offset(1, 0, 0)
	case West:
		return pos.Offset(-1, 0, 0)
	}
	return pos
}

// Vec3 is an entity position, e.g. where a player stands.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Block() BlockPos {
	return BlockPos{
		X: int32(math.Floor(v.X)),
		Y: int32(math.Floor(v.Y)),
		Z: int32(math.Floor(v.Z)),
	}
}

type Direction int

const (
	South Direction = iota
	West
	North
	East
)

func (dir Direction) String() string {
	switch dir {
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	case East:
		return "east"
	}
	return fmt.Sprint(int(dir))
}

func (dir Direction) Opposite() Direction {
	return (dir + 2) % 4
}

// DirectionFromYaw snaps a yaw in degrees to the horizontal direction the
// entity is facing. A yaw of 0 faces south, 90 faces west.
func DirectionFromYaw(yaw float32) Direction {
	normalized := math.Mod(float64(yaw), 360)
	if normalized < 0 {
		normalized += 360
	}
	return Direction(int(math.Round(normalized/90)) % 4)
}
