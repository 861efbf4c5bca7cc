package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginDiagram() UseCaseDiagram {
	return UseCaseDiagram{
		ID:   1,
		Name: "Accounts",
		Actors: []Actor{
			{ID: 1, Name: "Customer"},
			{ID: 2, Name: "Admin"},
		},
		UseCases: []UseCase{
			{ID: 1, Name: "Log in"},
			{ID: 2, Name: "Reset password"},
		},
		Relationships: []UseCaseRelationship{
			{RelationshipType: RelationAssociation, SourceID: 1, SourceType: EndpointActor, TargetID: 1, TargetType: EndpointUseCase},
			{RelationshipType: RelationExtend, SourceID: 2, SourceType: EndpointUseCase, TargetID: 1, TargetType: EndpointUseCase},
		},
	}
}

func TestBuildUseCaseDiagram(t *testing.T) {
	t.Run("accepts a consistent diagram", func(t *testing.T) {
		m, err := BuildUseCaseDiagram(loginDiagram())
		require.NoError(t, err)
		assert.Equal(t, DiagramID(1), m.ID())
		assert.True(t, m.HasUseCase(2))
		assert.True(t, m.HasActor(2))
		assert.False(t, m.HasActor(3))
		uc, ok := m.UseCase(1)
		require.True(t, ok)
		assert.Equal(t, "Log in", uc.Name)
	})

	t.Run("duplicate actor id", func(t *testing.T) {
		d := loginDiagram()
		d.Actors = append(d.Actors, Actor{ID: 2, Name: "Auditor"})
		_, err := BuildUseCaseDiagram(d)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, ok := AsFinding(err)
		require.True(t, ok)
		assert.Equal(t, "use case diagram 1", f.Scope)
		assert.Equal(t, "2", f.Value)
	})

	t.Run("actor and use case ids live in separate sets", func(t *testing.T) {
		d := loginDiagram()
		d.Actors = []Actor{{ID: 1, Name: "Customer"}}
		d.UseCases = []UseCase{{ID: 1, Name: "Log in"}, {ID: 2, Name: "Reset password"}}
		_, err := BuildUseCaseDiagram(d)
		assert.NoError(t, err)
	})

	t.Run("endpoint resolves only in the set its tag names", func(t *testing.T) {
		d := loginDiagram()
		// Use case 2 exists, actor 2 exists, but actor 3 does not.
		d.Relationships = append(d.Relationships, UseCaseRelationship{
			RelationshipType: RelationAssociation,
			SourceID:         3, SourceType: EndpointActor,
			TargetID: 2, TargetType: EndpointUseCase,
		})
		_, err := BuildUseCaseDiagram(d)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDanglingReference)
		f, _ := AsFinding(err)
		assert.Contains(t, f.Subject, "source")
		assert.Equal(t, "actor id", f.Expected)
	})

	t.Run("target tagged use_case with only an actor of that id", func(t *testing.T) {
		d := loginDiagram()
		d.Actors = append(d.Actors, Actor{ID: 7, Name: "Bot"})
		d.Relationships = []UseCaseRelationship{
			{RelationshipType: RelationAssociation, SourceID: 1, SourceType: EndpointActor, TargetID: 7, TargetType: EndpointUseCase},
		}
		_, err := BuildUseCaseDiagram(d)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})

	t.Run("unknown endpoint tag", func(t *testing.T) {
		d := loginDiagram()
		d.Relationships[0].TargetType = "system"
		_, err := BuildUseCaseDiagram(d)
		assert.ErrorIs(t, err, ErrStructuralShapeViolation)
	})

	t.Run("unknown relationship type", func(t *testing.T) {
		d := loginDiagram()
		d.Relationships[0].RelationshipType = "uses"
		_, err := BuildUseCaseDiagram(d)
		assert.ErrorIs(t, err, ErrStructuralShapeViolation)
	})
}

func TestUseCaseModelIsIsolatedFromCandidate(t *testing.T) {
	d := loginDiagram()
	m, err := BuildUseCaseDiagram(d)
	require.NoError(t, err)

	d.UseCases[0].Name = "changed"
	got := m.Diagram()
	assert.Equal(t, "Log in", got.UseCases[0].Name)

	got.UseCases[0].Name = "changed again"
	assert.Equal(t, "Log in", m.Diagram().UseCases[0].Name)
}

func TestBuildUseCaseCollection(t *testing.T) {
	second := UseCaseDiagram{
		ID:       2,
		Name:     "Orders",
		Actors:   []Actor{{ID: 1, Name: "Customer"}},
		UseCases: []UseCase{{ID: 10, Name: "Place order"}},
	}
	candidate := func() UseCaseModelCollection {
		return UseCaseModelCollection{
			ProjectName:     "shop",
			UseCaseDiagrams: []UseCaseDiagram{loginDiagram(), second},
			CrossRelationships: []CrossRelationship{{
				RelationshipType: RelationInclude,
				Source:           CrossEndpoint{DiagramID: 2, ElementID: 10, ElementType: EndpointUseCase},
				Target:           CrossEndpoint{DiagramID: 1, ElementID: 1, ElementType: EndpointUseCase},
			}},
		}
	}

	t.Run("accepts", func(t *testing.T) {
		c, err := BuildUseCaseCollection(candidate())
		require.NoError(t, err)
		assert.Equal(t, "shop", c.ProjectName())
		assert.Len(t, c.Diagrams(), 2)
		assert.True(t, c.HasUseCase(2, 10))
		assert.False(t, c.HasUseCase(1, 10))
		assert.False(t, c.HasUseCase(9, 1))
		assert.Len(t, c.CrossRelationships(), 1)
	})

	t.Run("duplicate diagram id", func(t *testing.T) {
		c := candidate()
		c.UseCaseDiagrams[1].ID = 1
		_, err := BuildUseCaseCollection(c)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, `use case collection "shop"`, f.Scope)
		assert.Equal(t, "diagram id", f.Subject)
	})

	t.Run("member diagram is validated", func(t *testing.T) {
		c := candidate()
		c.UseCaseDiagrams[1].UseCases = append(c.UseCaseDiagrams[1].UseCases, UseCase{ID: 10, Name: "again"})
		_, err := BuildUseCaseCollection(c)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, "use case diagram 2", f.Scope)
	})

	t.Run("cross edge must resolve through the diagram index", func(t *testing.T) {
		c := candidate()
		c.CrossRelationships[0].Target.DiagramID = 2 // use case 1 lives in diagram 1 only
		_, err := BuildUseCaseCollection(c)
		require.ErrorIs(t, err, ErrDanglingReference)
		f, _ := AsFinding(err)
		assert.Equal(t, "2/1", f.Value)
	})

	t.Run("cross edge to unknown diagram", func(t *testing.T) {
		c := candidate()
		c.CrossRelationships[0].Source.DiagramID = 42
		_, err := BuildUseCaseCollection(c)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})
}

func TestFindingMatching(t *testing.T) {
	err := error(newFinding(KindCyclicInheritance, "class diagram 1", "generalization chain", "A", ""))
	assert.ErrorIs(t, err, ErrCyclicInheritance)
	assert.NotErrorIs(t, err, ErrDanglingReference)
	assert.ErrorIs(t, err, &Finding{Kind: KindCyclicInheritance})

	wrapped := errors.Join(errors.New("loading classes.yaml"), err)
	f, ok := AsFinding(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindCyclicInheritance, f.Kind)
	assert.Equal(t, `CyclicInheritance: class diagram 1: generalization chain "A"`, f.Error())
}
