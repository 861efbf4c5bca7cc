// Package flow renders validated activity diagrams as structured
// control-flow text (PlantUML activity syntax).
package flow

import "blueprint/internal/model"

// edge is an outgoing flow addressed by arena index.
type edge struct {
	to    int
	guard string
}

// graph is an arena of activity nodes. Indices follow declaration order and
// adjacency lists follow flow declaration order.
type graph struct {
	nodes []model.ActivityNode
	out   [][]edge
	start int
}

func newGraph(m *model.ActivityModel) *graph {
	nodes := m.Nodes()
	g := &graph{
		nodes: nodes,
		out:   make([][]edge, len(nodes)),
		start: -1,
	}
	index := make(map[model.ElementID]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		if n.NodeType == model.NodeStart && g.start < 0 {
			g.start = i
		}
	}
	for _, f := range m.Flows() {
		src, ok := index[f.SourceID]
		if !ok {
			continue
		}
		dst, ok := index[f.TargetID]
		if !ok {
			continue
		}
		g.out[src] = append(g.out[src], edge{to: dst, guard: f.Condition})
	}
	return g
}

// decisionCondition picks the header text of an if block: the node's own
// condition, else the guard of its first outgoing flow.
func (g *graph) decisionCondition(i int) string {
	if c := g.nodes[i].Condition; c != "" {
		return c
	}
	if out := g.out[i]; len(out) > 0 && out[0].guard != "" {
		return out[0].guard
	}
	return "condition"
}
