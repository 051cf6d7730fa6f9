package plan

import "fmt"

// NodeType identifies the operator a plan node represents.
type NodeType int

const (
	Scan NodeType = iota
	Repartition
	Coalesce
	AggregateProbe
	Join
	Filter
)

// String returns the operator name of the NodeType.
func (t NodeType) String() string {
	switch t {
	case Scan:
		return "Scan"
	case Repartition:
		return "Repartition"
	case Coalesce:
		return "Coalesce"
	case AggregateProbe:
		return "AggregateProbe"
	case Join:
		return "Join"
	case Filter:
		return "Filter"
	default:
		return "Unknown"
	}
}

// Node is one operator in a plan tree. Logical trees are built during
// planning and carry estimated partition counts; physical trees are deep
// copies produced during execution with observed partition and row counts
// filled in. A node has between zero and two children.
type Node struct {
	Type        NodeType
	Description string

	// EstPartitions is the partition count the planner expects this
	// operator to produce.
	EstPartitions int

	// ActualPartitions and ActualRows are observed during execution and
	// are only meaningful on a physical tree.
	ActualPartitions int
	ActualRows       int

	// FullMovement marks operators whose cost is proportional to the total
	// row count because every row may move between partitions.
	FullMovement bool

	Children []*Node
}

// NewScan creates a leaf node for reading a named dataset. The observed
// counts of a scan are known at creation time, so both the estimated and
// actual figures are filled in.
func NewScan(name string, partitions, rows int) *Node {
	return &Node{
		Type:             Scan,
		Description:      name,
		EstPartitions:    partitions,
		ActualPartitions: partitions,
		ActualRows:       rows,
	}
}

// NewRepartition creates a node for a full redistribution of the child's
// rows into n partitions. Repartitioning always requires full data
// movement.
func NewRepartition(child *Node, n, rows int) *Node {
	return &Node{
		Type:             Repartition,
		Description:      fmt.Sprintf("n=%d", n),
		EstPartitions:    n,
		ActualPartitions: n,
		ActualRows:       rows,
		FullMovement:     true,
		Children:         []*Node{child},
	}
}

// NewCoalesce creates a node for narrowing the child to n partitions by
// merging contiguous partitions. No row moves between non-adjacent
// partitions, so the operator never requires full data movement.
func NewCoalesce(child *Node, n, rows int) *Node {
	return &Node{
		Type:             Coalesce,
		Description:      fmt.Sprintf("n=%d", n),
		EstPartitions:    n,
		ActualPartitions: n,
		ActualRows:       rows,
		Children:         []*Node{child},
	}
}

// NewAggregateProbe creates a node for a scalar aggregate computed over
// the child as a prerequisite of a dependent filter. The probe reduces its
// input to a single-row, single-partition value.
func NewAggregateProbe(description string, child *Node) *Node {
	return &Node{
		Type:          AggregateProbe,
		Description:   description,
		EstPartitions: 1,
		Children:      []*Node{child},
	}
}

// NewJoin creates a node for an inner equi-join of the two children.
func NewJoin(description string, estPartitions int, left, right *Node) *Node {
	return &Node{
		Type:          Join,
		Description:   description,
		EstPartitions: estPartitions,
		Children:      []*Node{left, right},
	}
}

// NewFilter creates a node for a predicate applied to the first child.
// The optional second child is the aggregate probe the predicate's
// threshold is derived from.
func NewFilter(description string, estPartitions int, input *Node, probe *Node) *Node {
	children := []*Node{input}
	if probe != nil {
		children = append(children, probe)
	}
	return &Node{
		Type:          Filter,
		Description:   description,
		EstPartitions: estPartitions,
		Children:      children,
	}
}

// Clone returns a deep copy of the node and all its children. Execution
// clones the logical tree so that observed counts never mutate the tree
// handed out at planning time.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	copied := &Node{
		Type:             n.Type,
		Description:      n.Description,
		EstPartitions:    n.EstPartitions,
		ActualPartitions: n.ActualPartitions,
		ActualRows:       n.ActualRows,
		FullMovement:     n.FullMovement,
	}
	for _, child := range n.Children {
		copied.Children = append(copied.Children, child.Clone())
	}
	return copied
}
