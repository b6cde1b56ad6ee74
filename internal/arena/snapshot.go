package arena

import (
	"fmt"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

// VehicleView is the read-only pose of one vehicle.
type VehicleView struct {
	Body      physics.BodyID    `json:"body"`
	Role      string            `json:"role"`
	Variant   string            `json:"variant"`
	Ready     bool              `json:"ready"`
	Transform physics.Transform `json:"transform"`
}

// Snapshot is what overlays, cameras and spectators see after a tick.
type Snapshot struct {
	Session  string        `json:"session"`
	Map      string        `json:"map"`
	Frame    uint64        `json:"frame"`
	Score    uint64        `json:"score"`
	Enemies  int           `json:"enemies"`
	Player   VehicleView   `json:"player"`
	Camera   CameraRig     `json:"camera"`
	Vehicles []VehicleView `json:"vehicles"`
	Overlay  string        `json:"overlay"`
}

// OverlayText is the score line drawn over the view.
func OverlayText(score uint64) string {
	return fmt.Sprintf("Poäng: %d", score)
}

func viewOf(w *World, v *Vehicle) VehicleView {
	tf, _ := w.Transform(v)
	return VehicleView{
		Body:      v.Body,
		Role:      v.Role.String(),
		Variant:   v.Variant,
		Ready:     v.Visual.Ready,
		Transform: tf,
	}
}
