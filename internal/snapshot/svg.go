package snapshot

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/simcore/internal/component"
)

const (
	cellSize   = 32
	canvasPad  = 16
	gridCols   = 20
	gridRows   = 20
)

var materialFill = map[component.MaterialID]string{
	component.MaterialNone:  "#1a1a2e",
	component.MaterialWood:  "#a0662b",
	component.MaterialStone: "#8c8c8c",
	component.MaterialIron:  "#c0c0d0",
	component.MaterialFlesh: "#d98a8a",
	component.MaterialBark:  "#6b4423",
	component.MaterialBone:  "#e8e4d0",
}

// DumpSVG draws one rect per visible entity in snap, colored by outermost
// layer material and labeled with hp/max_hp. This is a debug aid, not a
// production renderer; the core ships none.
func DumpSVG(w io.Writer, snap Snapshot) {
	width := gridCols*cellSize + 2*canvasPad
	height := gridRows*cellSize + 2*canvasPad

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1a1a2e")
	canvas.Text(canvasPad, canvasPad, fmt.Sprintf("tick %d", snap.Tick), "font-size:14px;fill:#cbd5e0")

	for _, e := range snap.Entities {
		x := canvasPad + int(e.X)*cellSize
		y := 2*canvasPad + int(e.Y)*cellSize

		fill, ok := materialFill[e.OuterMaterial]
		if !ok {
			fill = "#444"
		}
		style := fmt.Sprintf("fill:%s;stroke:#000;stroke-width:1", fill)
		if !e.Alive {
			style += ";opacity:0.3"
		}
		canvas.Rect(x, y, cellSize-2, cellSize-2, style)

		label := fmt.Sprintf("%d/%d", e.HP, e.MaxHP)
		canvas.Text(x+2, y+cellSize-4, label, "font-size:9px;fill:#fff")
	}

	canvas.End()
}
