package flow

import (
	"fmt"
	"strings"

	"blueprint/internal/model"
)

// Document wraps the linearized diagram in a complete PlantUML document:
// title, a note listing linked use cases, and, when the diagram declares
// swimlanes, a lane header plus a lane switch wherever the walk moves to a
// node assigned to another lane.
func Document(m *model.ActivityModel) string {
	doc, _ := Render(m)
	return doc
}

// Render returns Document(m) together with the number of control-flow
// lines between the header and @enduml.
func Render(m *model.ActivityModel) (string, int) {
	lines := []string{"@startuml", "title " + m.Name(), ""}

	if links := m.UseCaseLinks(); len(links) > 0 {
		lines = append(lines, "note top", "**Linked Use Cases:**")
		for _, l := range links {
			lines = append(lines, fmt.Sprintf("• UC%d (Diagram %d): %s", l.UseCaseID, l.DiagramID, l.FlowStep))
		}
		lines = append(lines, "end note", "")
	}

	w := newWalker(newGraph(m))
	if lanes := m.Swimlanes(); len(lanes) > 0 {
		w.lanes = make(map[model.ElementID]string, len(lanes))
		for _, l := range lanes {
			w.lanes[l.ID] = l.Name
		}
		// The header names the start node's lane, else the first declared one.
		w.lane, w.hasLane = lanes[0].ID, true
		if w.g.start >= 0 {
			if id := w.g.nodes[w.g.start].SwimlaneID; id != nil {
				w.lane = *id
			}
		}
		lines = append(lines, "|"+w.lanes[w.lane]+"|", "")
	}

	body := w.walk()
	lines = append(lines, body...)
	lines = append(lines, "@enduml")
	return strings.Join(lines, "\n") + "\n", len(body)
}

// Overview renders one PlantUML package per diagram of the collection with
// its node and flow counts and linked use cases.
func Overview(c *model.ActivityCollection) string {
	var b strings.Builder
	fmt.Fprintln(&b, "@startuml")
	fmt.Fprintf(&b, "title %s - Activity Diagrams Overview\n\n", c.ProjectName())
	for _, d := range c.Diagrams() {
		fmt.Fprintf(&b, "package %q {\n", d.Name())
		fmt.Fprintf(&b, "  note as N%d\n", d.ID())
		fmt.Fprintf(&b, "    Activity Diagram: %s\n", d.Name())
		fmt.Fprintf(&b, "    Nodes: %d\n", len(d.Nodes()))
		fmt.Fprintf(&b, "    Flows: %d\n", len(d.Flows()))
		if links := d.UseCaseLinks(); len(links) > 0 {
			fmt.Fprintln(&b, "    Linked Use Cases:")
			for _, l := range links {
				fmt.Fprintf(&b, "    • UC%d: %s\n", l.UseCaseID, l.FlowStep)
			}
		}
		fmt.Fprintln(&b, "  end note")
		fmt.Fprint(&b, "}\n\n")
	}
	fmt.Fprintln(&b, "@enduml")
	return b.String()
}
