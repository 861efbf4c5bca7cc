// Package model holds the design-artifact layers (use cases, activities,
// classes, objects, CRC cards, requirements) and the referential-integrity
// checks that guard their construction.
//
// Every layer is built from a fully populated candidate value through a
// BuildX factory. A factory either returns an immutable handle or the first
// violated invariant as a *Finding; there is no half-built state.
package model

import "fmt"

// ElementID identifies an element inside its owning diagram.
type ElementID int

// DiagramID identifies a diagram inside its owning collection.
type DiagramID int

// ElementRef addresses an element across diagram boundaries.
type ElementRef struct {
	DiagramID DiagramID `yaml:"diagram_id" json:"diagram_id"`
	ElementID ElementID `yaml:"element_id" json:"element_id"`
}

func (r ElementRef) String() string {
	return fmt.Sprintf("%d/%d", r.DiagramID, r.ElementID)
}

// EndpointKind tags which id-set a use-case relationship endpoint lives in.
type EndpointKind string

const (
	EndpointActor   EndpointKind = "actor"
	EndpointUseCase EndpointKind = "use_case"
)

func (k EndpointKind) Valid() bool {
	return k == EndpointActor || k == EndpointUseCase
}

// UseCaseRelationKind is the relationship_type of a use-case edge.
type UseCaseRelationKind string

const (
	RelationAssociation    UseCaseRelationKind = "association"
	RelationInclude        UseCaseRelationKind = "include"
	RelationExtend         UseCaseRelationKind = "extend"
	RelationGeneralization UseCaseRelationKind = "generalization"
)

func (k UseCaseRelationKind) Valid() bool {
	switch k {
	case RelationAssociation, RelationInclude, RelationExtend, RelationGeneralization:
		return true
	}
	return false
}

// NodeType is the node_type of an activity node.
type NodeType string

const (
	NodeStart    NodeType = "start"
	NodeEnd      NodeType = "end"
	NodeAction   NodeType = "action"
	NodeDecision NodeType = "decision"
	NodeMerge    NodeType = "merge"
	NodeFork     NodeType = "fork"
	NodeJoin     NodeType = "join"
)

func (t NodeType) Valid() bool {
	switch t {
	case NodeStart, NodeEnd, NodeAction, NodeDecision, NodeMerge, NodeFork, NodeJoin:
		return true
	}
	return false
}

// AssociationKind refines a class association. The empty value means a
// plain association.
type AssociationKind string

const (
	AssociationPlain       AssociationKind = "association"
	AssociationAggregation AssociationKind = "aggregation"
	AssociationComposition AssociationKind = "composition"
)

func (k AssociationKind) Valid() bool {
	switch k {
	case "", AssociationPlain, AssociationAggregation, AssociationComposition:
		return true
	}
	return false
}
