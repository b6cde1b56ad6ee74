package arena

import (
	"sync"

	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// CameraRig is the pose of the trailing camera.
type CameraRig struct {
	Position physics.Vec3 `json:"position"`
	Yaw      float64      `json:"yaw"`
}

// CameraFollow keeps the camera distance units along the player's forward
// vector (behind it, since vehicles travel along -forward) and height
// units above it.
type CameraFollow struct {
	world    *World
	distance float64
	height   float64

	mu  sync.RWMutex
	rig CameraRig
}

func NewCameraFollow(world *World, distance, height float64) *CameraFollow {
	return &CameraFollow{world: world, distance: distance, height: height}
}

func (c *CameraFollow) Name() string { return "camera" }

func (c *CameraFollow) Update(system.Tick) error {
	player := c.world.Player()
	if player == nil {
		return nil
	}
	tf, ok := c.world.Transform(player)
	if !ok {
		return nil
	}
	rig := FollowRig(tf, c.distance, c.height)
	c.mu.Lock()
	c.rig = rig
	c.mu.Unlock()
	return nil
}

func (c *CameraFollow) Rig() CameraRig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rig
}

// FollowRig places the camera for a player pose.
func FollowRig(player physics.Transform, distance, height float64) CameraRig {
	pos := player.Position.Add(player.Forward().Scale(distance))
	pos.Y += height
	return CameraRig{Position: pos, Yaw: player.Yaw}
}
