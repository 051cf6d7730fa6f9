package plan

import (
	"fmt"
	"strings"

	"github.com/quiverdb/quiver/qerr"
)

// ExplainMode selects which plan tree(s) Explain renders.
type ExplainMode int

const (
	Logical ExplainMode = iota
	Physical
	Both
)

// String returns the string representation of the ExplainMode.
func (m ExplainMode) String() string {
	switch m {
	case Logical:
		return "logical"
	case Physical:
		return "physical"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// ParseExplainMode parses an explain mode name.
func ParseExplainMode(mode string) (ExplainMode, error) {
	switch mode {
	case "logical":
		return Logical, nil
	case "physical":
		return Physical, nil
	case "both":
		return Both, nil
	default:
		return 0, qerr.New(qerr.InvalidArgument, "unknown explain mode %q", mode)
	}
}

// Explain renders the logical and/or physical plan trees as indented
// text. Rendering is side-effect free: calling it any number of times on
// the same trees yields identical output. The physical tree may be nil
// when the plan has not been executed yet; requesting it then is an
// error.
func Explain(logical, physical *Node, mode ExplainMode) (string, error) {
	if logical == nil {
		return "", qerr.New(qerr.InvalidArgument, "no logical plan to explain")
	}
	if (mode == Physical || mode == Both) && physical == nil {
		return "", qerr.New(qerr.InvalidArgument, "physical plan not available: query has not been executed")
	}

	var sb strings.Builder
	switch mode {
	case Logical:
		renderTree(&sb, logical, 0, false)
	case Physical:
		renderTree(&sb, physical, 0, true)
	case Both:
		sb.WriteString("== Logical Plan ==\n")
		renderTree(&sb, logical, 0, false)
		sb.WriteString("== Physical Plan ==\n")
		renderTree(&sb, physical, 0, true)
	default:
		return "", qerr.New(qerr.InvalidArgument, "unknown explain mode %d", mode)
	}
	return sb.String(), nil
}

func renderTree(sb *strings.Builder, n *Node, depth int, physical bool) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(renderNode(n, physical))
	sb.WriteByte('\n')
	for _, child := range n.Children {
		renderTree(sb, child, depth+1, physical)
	}
}

func renderNode(n *Node, physical bool) string {
	if physical {
		movement := "none"
		if n.FullMovement {
			movement = "full"
		}
		return fmt.Sprintf("%s(%s) [partitions=%d rows=%d movement=%s]",
			n.Type, n.Description, n.ActualPartitions, n.ActualRows, movement)
	}
	return fmt.Sprintf("%s(%s) [partitions=%d]", n.Type, n.Description, n.EstPartitions)
}
