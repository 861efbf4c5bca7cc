package model

// activity.go — activity diagrams and their collection.
//
// Activity diagrams are the one layer that gets rendered. Their shape rules
// (one start, at least one end, local flow endpoints) are what the
// control-flow linearizer relies on, so a rendered diagram must always come
// out of BuildActivityDiagram or BuildActivityCollection.

import "slices"

// ActivityNode is one vertex of the control-flow graph.
type ActivityNode struct {
	ID         ElementID  `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	NodeType   NodeType   `yaml:"node_type" json:"node_type"`
	Condition  string     `yaml:"condition,omitempty" json:"condition,omitempty"`
	SwimlaneID *ElementID `yaml:"swimlane_id,omitempty" json:"swimlane_id,omitempty"`
}

// Flow is a directed control-flow edge with an optional guard.
type Flow struct {
	SourceID  ElementID `yaml:"source_id" json:"source_id"`
	TargetID  ElementID `yaml:"target_id" json:"target_id"`
	Condition string    `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Swimlane groups nodes by responsible party.
type Swimlane struct {
	ID   ElementID `yaml:"id" json:"id"`
	Name string    `yaml:"name" json:"name"`
}

// UseCaseLink ties an activity diagram to a use case of the upstream
// use-case collection.
type UseCaseLink struct {
	DiagramID DiagramID `yaml:"diagram_id" json:"diagram_id"`
	UseCaseID ElementID `yaml:"use_case_id" json:"use_case_id"`
	FlowStep  string    `yaml:"flow_step,omitempty" json:"flow_step,omitempty"`
}

// ActivityDiagram is the candidate form of one activity diagram.
type ActivityDiagram struct {
	ID           DiagramID      `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	Nodes        []ActivityNode `yaml:"nodes" json:"nodes"`
	Flows        []Flow         `yaml:"flows" json:"flows"`
	Swimlanes    []Swimlane     `yaml:"swimlanes,omitempty" json:"swimlanes,omitempty"`
	UseCaseLinks []UseCaseLink  `yaml:"use_case_links,omitempty" json:"use_case_links,omitempty"`
}

func (d ActivityDiagram) clone() ActivityDiagram {
	nodes := make([]ActivityNode, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.SwimlaneID != nil {
			id := *n.SwimlaneID
			n.SwimlaneID = &id
		}
		nodes[i] = n
	}
	if d.Nodes == nil {
		nodes = nil
	}
	d.Nodes = nodes
	d.Flows = slices.Clone(d.Flows)
	d.Swimlanes = slices.Clone(d.Swimlanes)
	d.UseCaseLinks = slices.Clone(d.UseCaseLinks)
	return d
}

// ValidateActivityDiagram checks local shape and, through upstream, every
// use-case link. upstream may be nil only for a diagram without links.
func ValidateActivityDiagram(d ActivityDiagram, upstream *UseCaseCollection) error {
	scope := scopef("activity diagram %d", d.ID)

	nodeIDs := make([]ElementID, len(d.Nodes))
	for i, n := range d.Nodes {
		nodeIDs[i] = n.ID
	}
	if err := uniqueOrFinding(nodeIDs, scope, "node id"); err != nil {
		return err
	}
	laneIDs := make([]ElementID, len(d.Swimlanes))
	for i, s := range d.Swimlanes {
		laneIDs[i] = s.ID
	}
	if err := uniqueOrFinding(laneIDs, scope, "swimlane id"); err != nil {
		return err
	}
	lanes := set(laneIDs)

	starts, ends := 0, 0
	for _, n := range d.Nodes {
		if !n.NodeType.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, scopef("node %d node_type", n.ID), n.NodeType,
				"start|end|action|decision|merge|fork|join")
		}
		switch n.NodeType {
		case NodeStart:
			starts++
		case NodeEnd:
			ends++
		}
		if n.SwimlaneID != nil && !has(lanes, *n.SwimlaneID) {
			return newFinding(KindDanglingReference, scope, scopef("node %d swimlane", n.ID), *n.SwimlaneID, "swimlane id")
		}
	}
	if starts != 1 {
		return newFinding(KindStructuralShapeViolation, scope, "start node count", starts, "exactly 1")
	}
	if ends < 1 {
		return newFinding(KindStructuralShapeViolation, scope, "end node count", ends, "at least 1")
	}

	nodes := set(nodeIDs)
	for _, f := range d.Flows {
		edge := scopef("flow %d->%d", f.SourceID, f.TargetID)
		if !has(nodes, f.SourceID) {
			return newFinding(KindStructuralShapeViolation, scope, edge+" source", f.SourceID, "node id")
		}
		if !has(nodes, f.TargetID) {
			return newFinding(KindStructuralShapeViolation, scope, edge+" target", f.TargetID, "node id")
		}
	}

	for _, l := range d.UseCaseLinks {
		ref := ElementRef{DiagramID: l.DiagramID, ElementID: l.UseCaseID}
		if upstream == nil || !upstream.HasUseCase(l.DiagramID, l.UseCaseID) {
			return newFinding(KindDanglingReference, scope, "use case link", ref, "use case in referenced collection")
		}
	}
	return nil
}

// ActivityModel is a validated activity diagram. It keeps a read-only
// reference to the use-case collection its links resolve against.
type ActivityModel struct {
	d        ActivityDiagram
	upstream *UseCaseCollection
}

// BuildActivityDiagram validates d against upstream and returns an
// immutable handle.
func BuildActivityDiagram(d ActivityDiagram, upstream *UseCaseCollection) (*ActivityModel, error) {
	if err := ValidateActivityDiagram(d, upstream); err != nil {
		return nil, err
	}
	return &ActivityModel{d: d.clone(), upstream: upstream}, nil
}

func (m *ActivityModel) ID() DiagramID { return m.d.ID }
func (m *ActivityModel) Name() string { return m.d.Name }
func (m *ActivityModel) Upstream() *UseCaseCollection { return m.upstream }
func (m *ActivityModel) Diagram() ActivityDiagram { return m.d.clone() }

// Nodes returns the nodes in declaration order.
func (m *ActivityModel) Nodes() []ActivityNode { return m.d.clone().Nodes }

// Flows returns the flows in declaration order. Order is significant for
// rendering.
func (m *ActivityModel) Flows() []Flow { return slices.Clone(m.d.Flows) }

func (m *ActivityModel) Swimlanes() []Swimlane { return slices.Clone(m.d.Swimlanes) }

func (m *ActivityModel) UseCaseLinks() []UseCaseLink { return slices.Clone(m.d.UseCaseLinks) }

// ---------------------------------------------------------------------------
// Collection
// ---------------------------------------------------------------------------

// ActivityModelCollection is the candidate form of a project's activity layer.
type ActivityModelCollection struct {
	ProjectName      string            `yaml:"project_name" json:"project_name"`
	ActivityDiagrams []ActivityDiagram `yaml:"activity_diagrams" json:"activity_diagrams"`
}

// ValidateActivityCollection checks diagram id uniqueness and every member
// diagram against upstream.
func ValidateActivityCollection(c ActivityModelCollection, upstream *UseCaseCollection) error {
	scope := scopef("activity collection %q", c.ProjectName)
	ids := make([]DiagramID, len(c.ActivityDiagrams))
	for i, d := range c.ActivityDiagrams {
		ids[i] = d.ID
	}
	if err := uniqueOrFinding(ids, scope, "diagram id"); err != nil {
		return err
	}
	for _, d := range c.ActivityDiagrams {
		if err := ValidateActivityDiagram(d, upstream); err != nil {
			return err
		}
	}
	return nil
}

// ActivityCollection is a validated activity model collection.
type ActivityCollection struct {
	projectName string
	diagrams    []*ActivityModel
	upstream    *UseCaseCollection
}

// BuildActivityCollection validates c against upstream and returns an
// immutable handle.
func BuildActivityCollection(c ActivityModelCollection, upstream *UseCaseCollection) (*ActivityCollection, error) {
	if err := ValidateActivityCollection(c, upstream); err != nil {
		return nil, err
	}
	out := &ActivityCollection{projectName: c.ProjectName, upstream: upstream}
	for _, d := range c.ActivityDiagrams {
		out.diagrams = append(out.diagrams, &ActivityModel{d: d.clone(), upstream: upstream})
	}
	return out, nil
}

func (c *ActivityCollection) ProjectName() string { return c.projectName }
func (c *ActivityCollection) Upstream() *UseCaseCollection { return c.upstream }

// Diagrams returns the member diagrams in declaration order.
func (c *ActivityCollection) Diagrams() []*ActivityModel { return slices.Clone(c.diagrams) }

// Diagram looks up a member diagram by id.
func (c *ActivityCollection) Diagram(id DiagramID) (*ActivityModel, bool) {
	for _, d := range c.diagrams {
		if d.ID() == id {
			return d, true
		}
	}
	return nil, false
}
