package scene

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/achilleasa/prism/accel"
	"github.com/achilleasa/prism/types"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// Stats renders a table summarizing the scene contents and the state of its
// acceleration structure.
func (s *Scene) Stats() string {
	roles := make(map[string]int)
	triangles := 0
	for _, prim := range s.primitives {
		roles[prim.Role()]++
		if prim.Mesh != nil {
			triangles += prim.Mesh.NumTriangles()
		}
	}

	var areas []float64
	s.ForeachTriangle(func(_, _ int, p1, p2, p3 types.Vec3) {
		areas = append(areas, 0.5*float64(p2.Sub(p1).Cross(p3.Sub(p1)).Len()))
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Section", "Item", "Value"})
	table.Append([]string{"Primitives", "---", strconv.Itoa(len(s.primitives))})
	for _, role := range []string{"geometry", "mesh", "material", "light", "env light", "camera"} {
		if roles[role] == 0 {
			continue
		}
		table.Append([]string{"", role, strconv.Itoa(roles[role])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Geometry", "Triangles", strconv.Itoa(triangles)})
	if len(areas) > 0 {
		mean, std := stat.MeanStdDev(areas, nil)
		if len(areas) == 1 {
			std = 0
		}
		table.Append([]string{"", "Triangle area", fmt.Sprintf("%.4g (std %.4g)", mean, std)})
	}
	table.Append([]string{"Lights", "---", strconv.Itoa(len(s.lights))})
	table.Append([]string{"", "Env light", fmtIndex(s.envLight)})
	table.Append([]string{"Camera", "Primitive", fmtIndex(s.camera)})
	table.Append([]string{" ", " ", " "})

	if s.accel == nil {
		table.Append([]string{"Accel", "---", "not built"})
	} else {
		table.Append([]string{"Accel", "---", s.accelName})
		if sp, ok := s.accel.(accel.StatsProvider); ok {
			st := sp.Stats()
			table.Append([]string{"", "Nodes", strconv.Itoa(st.Nodes)})
			table.Append([]string{"", "Leaves", strconv.Itoa(st.Leaves)})
			table.Append([]string{"", "Max depth", strconv.Itoa(st.MaxDepth)})
		}
	}
	table.SetFooter([]string{"Build time", " ", fmtDuration(s.buildTime)})

	table.Render()
	return buf.String()
}

func fmtIndex(idx int) string {
	if idx < 0 {
		return "none"
	}
	return fmt.Sprintf("#%d", idx)
}

func fmtDuration(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Nanoseconds()/1e6)
}
