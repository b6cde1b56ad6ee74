package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/arena/internal/arena"
)

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleOverlay = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// View draws a top-down picture of the arena: the overlay on the first
// row, the walled square below it.
type View struct {
	screen   tcell.Screen
	halfSize float64
}

func NewView(screen tcell.Screen, halfSize float64) *View {
	return &View{screen: screen, halfSize: halfSize}
}

func (v *View) Draw(snap arena.Snapshot) {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w < 3 || h < 4 {
		v.screen.Show()
		return
	}
	v.drawText(0, 0, snap.Overlay, styleOverlay)

	top, bottom := 1, h-1
	for x := range w {
		v.screen.SetContent(x, top, '#', nil, styleWall)
		v.screen.SetContent(x, bottom, '#', nil, styleWall)
	}
	for y := top; y <= bottom; y++ {
		v.screen.SetContent(0, y, '#', nil, styleWall)
		v.screen.SetContent(w-1, y, '#', nil, styleWall)
	}

	// player last so it stays visible when sharing a cell
	for _, vh := range snap.Vehicles {
		if vh.Role == arena.RoleEnemy.String() {
			x, y := v.cell(vh.Transform.Position.X, vh.Transform.Position.Z, w, top, bottom)
			v.screen.SetContent(x, y, 'E', nil, styleEnemy)
		}
	}
	if snap.Player.Role != "" {
		x, y := v.cell(snap.Player.Transform.Position.X, snap.Player.Transform.Position.Z, w, top, bottom)
		v.screen.SetContent(x, y, '@', nil, stylePlayer)
	}
	v.screen.Show()
}

// cell maps arena X/Z onto the interior of the border.
func (v *View) cell(x, z float64, w, top, bottom int) (int, int) {
	col := project(x, v.halfSize, 1, w-2)
	row := project(z, v.halfSize, top+1, bottom-1)
	return col, row
}

func project(p, half float64, lo, hi int) int {
	if hi < lo {
		return lo
	}
	t := (p + half) / (2 * half)
	t = math.Max(0, math.Min(1, t))
	return lo + int(math.Round(t*float64(hi-lo)))
}

func (v *View) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
