package render

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// Layer names used in exported drawings.
const (
	LayerSlope  = "SLOPE"
	LayerCircle = "CIRCLE"
	LayerSlices = "SLICES"
)

// DXF writes the scene as a DXF drawing at path, in metres.
func DXF(path string, s Scene) error {
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerSlope, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("layer %s: %w", LayerSlope, err)
	}
	pts := s.ground()
	for i := 1; i < len(pts); i++ {
		if _, err := d.Line(pts[i-1].X, pts[i-1].Y, 0, pts[i].X, pts[i].Y, 0); err != nil {
			return fmt.Errorf("ground segment: %w", err)
		}
	}

	if c := s.Circle; c != nil {
		if _, err := d.AddLayer(LayerCircle, color.Red, table.LT_HIDDEN, true); err != nil {
			return fmt.Errorf("layer %s: %w", LayerCircle, err)
		}
		if _, err := d.Circle(c.CenterX, c.CenterY, 0, c.Radius); err != nil {
			return fmt.Errorf("circle: %w", err)
		}

		if lines := s.sliceLines(); len(lines) > 0 {
			if _, err := d.AddLayer(LayerSlices, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
				return fmt.Errorf("layer %s: %w", LayerSlices, err)
			}
			for _, seg := range lines {
				if _, err := d.Line(seg[0].X, seg[0].Y, 0, seg[1].X, seg[1].Y, 0); err != nil {
					return fmt.Errorf("slice segment: %w", err)
				}
			}
		}
	}
	return d.SaveAs(path)
}
