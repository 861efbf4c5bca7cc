package model

import "slices"

// ---------------------------------------------------------------------------
// Use-case diagram
// ---------------------------------------------------------------------------

// Actor is a role that interacts with the system.
type Actor struct {
	ID          ElementID `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
}

// UseCase is a goal an actor pursues through the system.
type UseCase struct {
	ID          ElementID `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
}

// UseCaseRelationship is a directed, typed edge between two use-case
// diagram elements. The endpoint type tags pick the id-set each id must
// resolve in.
type UseCaseRelationship struct {
	RelationshipType UseCaseRelationKind `yaml:"relationship_type" json:"relationship_type"`
	SourceID         ElementID           `yaml:"source_id" json:"source_id"`
	SourceType       EndpointKind        `yaml:"source_type" json:"source_type"`
	TargetID         ElementID           `yaml:"target_id" json:"target_id"`
	TargetType       EndpointKind        `yaml:"target_type" json:"target_type"`
}

// UseCaseDiagram is one named view of actors and use cases.
type UseCaseDiagram struct {
	ID            DiagramID             `yaml:"id" json:"id"`
	Name          string                `yaml:"name" json:"name"`
	Actors        []Actor               `yaml:"actors,omitempty" json:"actors,omitempty"`
	UseCases      []UseCase             `yaml:"use_cases,omitempty" json:"use_cases,omitempty"`
	Relationships []UseCaseRelationship `yaml:"relationships,omitempty" json:"relationships,omitempty"`
}

func (d UseCaseDiagram) clone() UseCaseDiagram {
	d.Actors = slices.Clone(d.Actors)
	d.UseCases = slices.Clone(d.UseCases)
	d.Relationships = slices.Clone(d.Relationships)
	return d
}

func (d UseCaseDiagram) actorIDs() []ElementID {
	ids := make([]ElementID, len(d.Actors))
	for i, a := range d.Actors {
		ids[i] = a.ID
	}
	return ids
}

func (d UseCaseDiagram) useCaseIDs() []ElementID {
	ids := make([]ElementID, len(d.UseCases))
	for i, uc := range d.UseCases {
		ids[i] = uc.ID
	}
	return ids
}

// useCaseIndex resolves endpoint ids through the id-set selected by their
// kind tag.
type useCaseIndex struct {
	actors   map[ElementID]struct{}
	useCases map[ElementID]struct{}
}

func newUseCaseIndex(d UseCaseDiagram) useCaseIndex {
	return useCaseIndex{actors: set(d.actorIDs()), useCases: set(d.useCaseIDs())}
}

func (ix useCaseIndex) resolves(kind EndpointKind, id ElementID) bool {
	switch kind {
	case EndpointActor:
		return has(ix.actors, id)
	case EndpointUseCase:
		return has(ix.useCases, id)
	}
	return false
}

// ValidateUseCaseDiagram checks id uniqueness and endpoint resolution.
func ValidateUseCaseDiagram(d UseCaseDiagram) error {
	scope := scopef("use case diagram %d", d.ID)
	if err := uniqueOrFinding(d.actorIDs(), scope, "actor id"); err != nil {
		return err
	}
	if err := uniqueOrFinding(d.useCaseIDs(), scope, "use case id"); err != nil {
		return err
	}

	ix := newUseCaseIndex(d)
	for _, r := range d.Relationships {
		edge := scopef("relationship %s %s:%d -> %s:%d", r.RelationshipType, r.SourceType, r.SourceID, r.TargetType, r.TargetID)
		if !r.RelationshipType.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, edge, r.RelationshipType, "association|include|extend|generalization")
		}
		if !r.SourceType.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, edge+" source", r.SourceType, "actor|use_case")
		}
		if !r.TargetType.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, edge+" target", r.TargetType, "actor|use_case")
		}
		if !ix.resolves(r.SourceType, r.SourceID) {
			return newFinding(KindDanglingReference, scope, edge+" source", r.SourceID, string(r.SourceType)+" id")
		}
		if !ix.resolves(r.TargetType, r.TargetID) {
			return newFinding(KindDanglingReference, scope, edge+" target", r.TargetID, string(r.TargetType)+" id")
		}
	}
	return nil
}

// UseCaseModel is a validated use-case diagram.
type UseCaseModel struct {
	d  UseCaseDiagram
	ix useCaseIndex
}

// BuildUseCaseDiagram validates d and returns an immutable handle.
func BuildUseCaseDiagram(d UseCaseDiagram) (*UseCaseModel, error) {
	if err := ValidateUseCaseDiagram(d); err != nil {
		return nil, err
	}
	d = d.clone()
	return &UseCaseModel{d: d, ix: newUseCaseIndex(d)}, nil
}

func (m *UseCaseModel) ID() DiagramID { return m.d.ID }
func (m *UseCaseModel) Name() string { return m.d.Name }
func (m *UseCaseModel) Diagram() UseCaseDiagram { return m.d.clone() }

// HasUseCase reports whether id names a use case in this diagram.
func (m *UseCaseModel) HasUseCase(id ElementID) bool { return has(m.ix.useCases, id) }

// HasActor reports whether id names an actor in this diagram.
func (m *UseCaseModel) HasActor(id ElementID) bool { return has(m.ix.actors, id) }

// UseCase returns the use case with the given id.
func (m *UseCaseModel) UseCase(id ElementID) (UseCase, bool) {
	for _, uc := range m.d.UseCases {
		if uc.ID == id {
			return uc, true
		}
	}
	return UseCase{}, false
}
