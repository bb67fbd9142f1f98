package graph

import (
	"fmt"
	"strings"

	"github.com/arnevik/axle"
)

// Overlay highlights where a dimension lives on top of the plain tree.
type Overlay struct {
	Dimension string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a spec.
// It applies semantic styling:
// - Root: ((Circle))
// - Container: [Rectangle]
// - Shape leaf: [/Parallelogram/] labeled with its dimension list
// Edges carry the container keys. With an overlay, leaves carrying the
// dimension are styled and annotated with the axis it occupies.
func GenerateMermaid(spec *axle.Spec, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var carriers []string
	writeNode(&sb, spec, "root", "spec", true, overlay, &carriers)

	if overlay != nil && len(carriers) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef carries fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		for _, id := range carriers {
			sb.WriteString(fmt.Sprintf("    class %s carries;\n", id))
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, spec *axle.Spec, id, name string, isRoot bool, overlay *Overlay, carriers *[]string) {
	if spec.IsLeaf() {
		sh := spec.Leaves()[0].Shape
		label := fmt.Sprintf("%s %s", name, sh)
		if overlay != nil {
			if axis, err := sh.Index(overlay.Dimension); err == nil {
				label = fmt.Sprintf("%s %s axis %d", name, sh, axis)
				*carriers = append(*carriers, id)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, label))
		return
	}

	opener, closer := "[", "]"
	if isRoot {
		opener, closer = "((", "))" // Circle
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, name, closer))

	keys, ok := spec.Registry().Keys(spec.Tree())
	if !ok {
		return
	}
	for _, k := range keys {
		child, err := spec.Sub(k)
		if err != nil {
			continue
		}
		childID := sanitizeMermaidID(id + "_" + k)
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", id, k, childID))
		writeNode(sb, child, childID, k, false, overlay, carriers)
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
