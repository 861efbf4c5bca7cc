package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryClasses() ClassDiagram {
	return ClassDiagram{
		ID:   1,
		Name: "Library",
		Classes: []Class{
			{Name: "Person", Attributes: []Attribute{{Name: "name", Type: "string"}}},
			{Name: "Member", Attributes: []Attribute{{Name: "card", Type: "int"}}},
			{Name: "Book", Attributes: []Attribute{{Name: "title", Type: "string"}, {Name: "isbn", Type: "string"}}},
			{Name: "Loan", Methods: []Method{{Name: "extend", Parameters: []Parameter{{Name: "days", Type: "int"}}, ReturnType: "bool"}}},
		},
		Generalizations: []Generalization{{Subclass: "Member", Superclass: "Person"}},
		Associations: []Association{
			{Source: "Loan", Target: "Book", Kind: AssociationPlain, SourceMultiplicity: "*", TargetMultiplicity: "1"},
			{Source: "Person", Target: "Loan", Name: "borrows"},
		},
	}
}

func TestBuildClassDiagram(t *testing.T) {
	t.Run("accepts", func(t *testing.T) {
		m, err := BuildClassDiagram(libraryClasses())
		require.NoError(t, err)
		sup, ok := m.Superclass("Member")
		require.True(t, ok)
		assert.Equal(t, "Person", sup)
		assert.Equal(t, []string{"Member", "Person"}, m.Lineage("Member"))
		assert.True(t, m.HasAttribute("Member", "name"), "inherited attribute")
		assert.False(t, m.HasAttribute("Person", "card"))
		assert.True(t, m.Associated("Book", "Loan"), "either order")
		assert.True(t, m.Associated("Loan", "Member"), "through superclass")
		assert.False(t, m.Associated("Book", "Person"))
	})

	t.Run("duplicate class name", func(t *testing.T) {
		d := libraryClasses()
		d.Classes = append(d.Classes, Class{Name: "Book"})
		_, err := BuildClassDiagram(d)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, "Book", f.Value)
	})

	t.Run("duplicate attribute within a class", func(t *testing.T) {
		d := libraryClasses()
		d.Classes[2].Attributes = append(d.Classes[2].Attributes, Attribute{Name: "title"})
		_, err := BuildClassDiagram(d)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	})

	t.Run("unknown superclass", func(t *testing.T) {
		d := libraryClasses()
		d.Generalizations = append(d.Generalizations, Generalization{Subclass: "Book", Superclass: "Item"})
		_, err := BuildClassDiagram(d)
		require.ErrorIs(t, err, ErrUnknownCollaboratorOrSuperclass)
		f, _ := AsFinding(err)
		assert.Equal(t, "Item", f.Value)
	})

	t.Run("association to unknown class", func(t *testing.T) {
		d := libraryClasses()
		d.Associations = append(d.Associations, Association{Source: "Book", Target: "Shelf"})
		_, err := BuildClassDiagram(d)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})

	t.Run("unknown association kind", func(t *testing.T) {
		d := libraryClasses()
		d.Associations[0].Kind = "friendship"
		_, err := BuildClassDiagram(d)
		assert.ErrorIs(t, err, ErrStructuralShapeViolation)
	})

	t.Run("second superclass for the same subclass is rejected", func(t *testing.T) {
		d := libraryClasses()
		d.Generalizations = append(d.Generalizations, Generalization{Subclass: "Member", Superclass: "Book"})
		_, err := BuildClassDiagram(d)
		require.ErrorIs(t, err, ErrStructuralShapeViolation)
		f, _ := AsFinding(err)
		assert.Equal(t, "Member", f.Value)
	})
}

func TestClassDiagramInheritanceCycles(t *testing.T) {
	classes := func(names ...string) []Class {
		out := make([]Class, len(names))
		for i, n := range names {
			out[i] = Class{Name: n}
		}
		return out
	}

	t.Run("three-class cycle", func(t *testing.T) {
		_, err := BuildClassDiagram(ClassDiagram{
			ID:      3,
			Classes: classes("A", "B", "C"),
			Generalizations: []Generalization{
				{Subclass: "A", Superclass: "B"},
				{Subclass: "B", Superclass: "C"},
				{Subclass: "C", Superclass: "A"},
			},
		})
		require.ErrorIs(t, err, ErrCyclicInheritance)
		f, _ := AsFinding(err)
		assert.Contains(t, []string{"A", "B", "C"}, f.Value)
	})

	t.Run("self generalization", func(t *testing.T) {
		_, err := BuildClassDiagram(ClassDiagram{
			ID:              3,
			Classes:         classes("A"),
			Generalizations: []Generalization{{Subclass: "A", Superclass: "A"}},
		})
		assert.ErrorIs(t, err, ErrCyclicInheritance)
	})

	t.Run("cycle reached from an acyclic tail", func(t *testing.T) {
		_, err := BuildClassDiagram(ClassDiagram{
			ID:      3,
			Classes: classes("Leaf", "A", "B"),
			Generalizations: []Generalization{
				{Subclass: "Leaf", Superclass: "A"},
				{Subclass: "A", Superclass: "B"},
				{Subclass: "B", Superclass: "A"},
			},
		})
		require.ErrorIs(t, err, ErrCyclicInheritance)
		f, _ := AsFinding(err)
		assert.Contains(t, []string{"A", "B"}, f.Value)
	})

	for _, depth := range []int{1, 5, 200} {
		t.Run(fmt.Sprintf("deep chain of %d is accepted", depth), func(t *testing.T) {
			d := ClassDiagram{ID: 4}
			for i := 0; i <= depth; i++ {
				d.Classes = append(d.Classes, Class{Name: fmt.Sprintf("C%d", i)})
			}
			for i := 0; i < depth; i++ {
				d.Generalizations = append(d.Generalizations, Generalization{
					Subclass:   fmt.Sprintf("C%d", i+1),
					Superclass: fmt.Sprintf("C%d", i),
				})
			}
			m, err := BuildClassDiagram(d)
			require.NoError(t, err)
			assert.Len(t, m.Lineage(fmt.Sprintf("C%d", depth)), depth+1)
		})
	}

	t.Run("diamond-free DAG with shared superclass", func(t *testing.T) {
		_, err := BuildClassDiagram(ClassDiagram{
			ID:      5,
			Classes: classes("Shape", "Circle", "Square", "Unit"),
			Generalizations: []Generalization{
				{Subclass: "Circle", Superclass: "Shape"},
				{Subclass: "Square", Superclass: "Shape"},
				{Subclass: "Unit", Superclass: "Square"},
			},
		})
		assert.NoError(t, err)
	})
}

func TestClassModelCopiesOut(t *testing.T) {
	m, err := BuildClassDiagram(libraryClasses())
	require.NoError(t, err)
	c, ok := m.Class("Loan")
	require.True(t, ok)
	c.Methods[0].Parameters[0].Name = "weeks"
	again, _ := m.Class("Loan")
	assert.Equal(t, "days", again.Methods[0].Parameters[0].Name)
}
