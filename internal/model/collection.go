package model

// collection.go — use-case model collection.
//
// A collection owns an ordered set of use-case diagrams plus relationships
// that cross diagram boundaries. Cross edges address their endpoints as
// (diagram_id, element_id) pairs resolved through a diagram -> id-set index.

import "slices"

// CrossEndpoint is one end of a cross-diagram relationship.
type CrossEndpoint struct {
	DiagramID   DiagramID    `yaml:"diagram_id" json:"diagram_id"`
	ElementID   ElementID    `yaml:"element_id" json:"element_id"`
	ElementType EndpointKind `yaml:"element_type" json:"element_type"`
}

// CrossRelationship connects elements of two (possibly equal) diagrams in
// the same collection.
type CrossRelationship struct {
	RelationshipType UseCaseRelationKind `yaml:"relationship_type" json:"relationship_type"`
	Source           CrossEndpoint       `yaml:"source" json:"source"`
	Target           CrossEndpoint       `yaml:"target" json:"target"`
}

// UseCaseModelCollection is the candidate form of a project's use-case layer.
type UseCaseModelCollection struct {
	ProjectName        string              `yaml:"project_name" json:"project_name"`
	UseCaseDiagrams    []UseCaseDiagram    `yaml:"use_case_diagrams" json:"use_case_diagrams"`
	CrossRelationships []CrossRelationship `yaml:"cross_relationships,omitempty" json:"cross_relationships,omitempty"`
}

func (c UseCaseModelCollection) diagramIDs() []DiagramID {
	ids := make([]DiagramID, len(c.UseCaseDiagrams))
	for i, d := range c.UseCaseDiagrams {
		ids[i] = d.ID
	}
	return ids
}

// ValidateUseCaseCollection checks every member diagram, diagram id
// uniqueness and cross-diagram endpoint resolution.
func ValidateUseCaseCollection(c UseCaseModelCollection) error {
	_, err := validateUseCaseCollection(c)
	return err
}

func validateUseCaseCollection(c UseCaseModelCollection) (map[DiagramID]useCaseIndex, error) {
	scope := scopef("use case collection %q", c.ProjectName)
	if err := uniqueOrFinding(c.diagramIDs(), scope, "diagram id"); err != nil {
		return nil, err
	}
	index := make(map[DiagramID]useCaseIndex, len(c.UseCaseDiagrams))
	for _, d := range c.UseCaseDiagrams {
		if err := ValidateUseCaseDiagram(d); err != nil {
			return nil, err
		}
		index[d.ID] = newUseCaseIndex(d)
	}

	resolve := func(e CrossEndpoint) bool {
		ix, ok := index[e.DiagramID]
		return ok && ix.resolves(e.ElementType, e.ElementID)
	}
	for _, r := range c.CrossRelationships {
		edge := scopef("cross relationship %s %d/%d -> %d/%d", r.RelationshipType,
			r.Source.DiagramID, r.Source.ElementID, r.Target.DiagramID, r.Target.ElementID)
		if !r.RelationshipType.Valid() {
			return nil, newFinding(KindStructuralShapeViolation, scope, edge, r.RelationshipType, "association|include|extend|generalization")
		}
		for _, end := range []struct {
			name string
			e    CrossEndpoint
		}{{"source", r.Source}, {"target", r.Target}} {
			if !end.e.ElementType.Valid() {
				return nil, newFinding(KindStructuralShapeViolation, scope, edge+" "+end.name, end.e.ElementType, "actor|use_case")
			}
			if !resolve(end.e) {
				return nil, newFinding(KindDanglingReference, scope, edge+" "+end.name,
					ElementRef{DiagramID: end.e.DiagramID, ElementID: end.e.ElementID}, string(end.e.ElementType)+" in collection")
			}
		}
	}
	return index, nil
}

// UseCaseCollection is a validated use-case model collection. It is the
// upstream layer for activity diagrams, descriptions and requirements.
type UseCaseCollection struct {
	projectName string
	diagrams    []*UseCaseModel
	byID        map[DiagramID]*UseCaseModel
	cross       []CrossRelationship
}

// BuildUseCaseCollection validates c and returns an immutable handle.
func BuildUseCaseCollection(c UseCaseModelCollection) (*UseCaseCollection, error) {
	index, err := validateUseCaseCollection(c)
	if err != nil {
		return nil, err
	}
	out := &UseCaseCollection{
		projectName: c.ProjectName,
		byID:        make(map[DiagramID]*UseCaseModel, len(c.UseCaseDiagrams)),
		cross:       slices.Clone(c.CrossRelationships),
	}
	for _, d := range c.UseCaseDiagrams {
		m := &UseCaseModel{d: d.clone(), ix: index[d.ID]}
		out.diagrams = append(out.diagrams, m)
		out.byID[d.ID] = m
	}
	return out, nil
}

func (c *UseCaseCollection) ProjectName() string { return c.projectName }

// Diagrams returns the member diagrams in declaration order.
func (c *UseCaseCollection) Diagrams() []*UseCaseModel { return slices.Clone(c.diagrams) }

func (c *UseCaseCollection) CrossRelationships() []CrossRelationship {
	return slices.Clone(c.cross)
}

// Diagram looks up a member diagram by id.
func (c *UseCaseCollection) Diagram(id DiagramID) (*UseCaseModel, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// HasUseCase reports whether (diagramID, useCaseID) names an existing use case.
func (c *UseCaseCollection) HasUseCase(diagramID DiagramID, useCaseID ElementID) bool {
	m, ok := c.byID[diagramID]
	return ok && m.HasUseCase(useCaseID)
}
