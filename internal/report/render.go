package report

import (
	"fmt"
	"strings"

	"github.com/Dmdv/ants-simulation/internal/colony"
)

// RenderMap prints the surviving colonies in the input format, one line
// per colony, colonies in original map order and tunnels in canonical
// direction order. The output of a finished run is itself a valid map.
func RenderMap(g *colony.Graph) string {
	var b strings.Builder
	for _, name := range g.Names() {
		b.WriteString(name)
		for _, e := range g.Neighbors(name) {
			fmt.Fprintf(&b, " %s=%s", e.Direction, e.Target)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
