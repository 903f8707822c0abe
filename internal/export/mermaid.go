// Package export renders projects in external diagram formats.
package export

import (
	"fmt"
	"strings"

	"github.com/rpggio/require/internal/domain/model"
)

const (
	systemStyle    = "fill:#e3f2fd,stroke:#1976d2,stroke-width:2px"
	componentStyle = "fill:#f3e5f5,stroke:#7b1fa2"
	emptyStyle     = "fill:#f9f9f9,stroke:#ddd"
)

var labelEscaper = strings.NewReplacer(`"`, "#quot;", "|", "#124;")

// Mermaid renders the component hierarchy of p as a top-down Mermaid
// flowchart. Parent links are solid edges; connections are dotted edges
// labelled with the source interface name. Output is deterministic.
func Mermaid(p *model.Project) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	if len(p.Components) == 0 {
		b.WriteString("    A[No Components]\n")
		fmt.Fprintf(&b, "    style A %s\n", emptyStyle)
		return b.String()
	}

	for _, c := range p.Components {
		label := labelEscaper.Replace(c.Name)
		if c.Type == model.TypeSystem {
			fmt.Fprintf(&b, "    %s[[\"%s\"]]\n", nodeID(c.ID), label)
		} else {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", nodeID(c.ID), label)
		}
	}

	for _, c := range p.Components {
		if c.ParentID != "" && p.FindComponent(c.ParentID) >= 0 {
			fmt.Fprintf(&b, "    %s --> %s\n", nodeID(c.ParentID), nodeID(c.ID))
		}
	}

	for _, conn := range p.Connections {
		label := conn.SourceInterfaceID
		if iface, ok := p.FindInterface(conn.SourceComponentID, conn.SourceInterfaceID); ok && iface.Name != "" {
			label = iface.Name
		}
		fmt.Fprintf(&b, "    %s -.->|%s| %s\n",
			nodeID(conn.SourceComponentID), labelEscaper.Replace(label), nodeID(conn.TargetComponentID))
	}

	b.WriteString("\n    %% Styling\n")
	for _, c := range p.Components {
		style := componentStyle
		if c.Type == model.TypeSystem {
			style = systemStyle
		}
		fmt.Fprintf(&b, "    style %s %s\n", nodeID(c.ID), style)
	}
	return b.String()
}

// nodeID makes an entity id usable as a Mermaid node id.
func nodeID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}
