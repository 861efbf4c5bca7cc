package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func librarySnapshot() ObjectDiagram {
	return ObjectDiagram{
		ID:           7,
		Name:         "Tuesday loans",
		ClassDiagram: 1,
		Objects: []Object{
			{ID: 1, Name: "ada", ClassName: "Member", AttributeValues: []AttributeValue{{Name: "name", Value: "Ada"}, {Name: "card", Value: "42"}}},
			{ID: 2, Name: "loan1", ClassName: "Loan"},
			{ID: 3, Name: "sicp", ClassName: "Book", AttributeValues: []AttributeValue{{Name: "title", Value: "SICP"}}},
		},
		Links: []Link{
			{SourceID: 1, TargetID: 2},
			{SourceID: 3, TargetID: 2}, // declared as Loan -> Book
		},
	}
}

func TestBuildObjectDiagram(t *testing.T) {
	classes, err := BuildClassDiagram(libraryClasses())
	require.NoError(t, err)

	t.Run("accepts", func(t *testing.T) {
		m, err := BuildObjectDiagram(librarySnapshot(), classes)
		require.NoError(t, err)
		assert.Same(t, classes, m.Upstream())
		assert.Len(t, m.Diagram().Objects, 3)
	})

	t.Run("unknown class", func(t *testing.T) {
		d := librarySnapshot()
		d.Objects[2].ClassName = "Magazine"
		_, err := BuildObjectDiagram(d, classes)
		require.ErrorIs(t, err, ErrDanglingReference)
		f, _ := AsFinding(err)
		assert.Equal(t, "Magazine", f.Value)
		assert.Equal(t, "object diagram 7", f.Scope)
	})

	t.Run("attribute not on the class", func(t *testing.T) {
		d := librarySnapshot()
		d.Objects[2].AttributeValues = append(d.Objects[2].AttributeValues, AttributeValue{Name: "pages", Value: "657"})
		_, err := BuildObjectDiagram(d, classes)
		require.ErrorIs(t, err, ErrAttributeNotDeclared)
		f, _ := AsFinding(err)
		assert.Equal(t, "pages", f.Value)
	})

	t.Run("repeated attribute value", func(t *testing.T) {
		d := librarySnapshot()
		d.Objects[2].AttributeValues = append(d.Objects[2].AttributeValues, AttributeValue{Name: "title", Value: "again"})
		_, err := BuildObjectDiagram(d, classes)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	})

	t.Run("link without association in either order", func(t *testing.T) {
		d := librarySnapshot()
		d.Links = append(d.Links, Link{SourceID: 3, TargetID: 1})
		_, err := BuildObjectDiagram(d, classes)
		require.ErrorIs(t, err, ErrAssociationNotDeclared)
		f, _ := AsFinding(err)
		assert.Equal(t, "Book-Member", f.Value)

		d.Links[len(d.Links)-1] = Link{SourceID: 1, TargetID: 3}
		_, err = BuildObjectDiagram(d, classes)
		assert.ErrorIs(t, err, ErrAssociationNotDeclared)
	})

	t.Run("link endpoint is not an object", func(t *testing.T) {
		d := librarySnapshot()
		d.Links[0].TargetID = 77
		_, err := BuildObjectDiagram(d, classes)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})

	t.Run("duplicate object id", func(t *testing.T) {
		d := librarySnapshot()
		d.Objects[1].ID = 1
		_, err := BuildObjectDiagram(d, classes)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	})

	t.Run("wrong or missing class diagram", func(t *testing.T) {
		d := librarySnapshot()
		d.ClassDiagram = 2
		_, err := BuildObjectDiagram(d, classes)
		assert.ErrorIs(t, err, ErrDanglingReference)

		_, err = BuildObjectDiagram(librarySnapshot(), nil)
		assert.ErrorIs(t, err, ErrDanglingReference)
	})

	t.Run("multiplicities are not enforced", func(t *testing.T) {
		d := librarySnapshot()
		// Loan -> Book is "1" on the book side; two books on one loan still pass.
		d.Objects = append(d.Objects, Object{ID: 4, Name: "taocp", ClassName: "Book"})
		d.Links = append(d.Links, Link{SourceID: 2, TargetID: 4})
		_, err := BuildObjectDiagram(d, classes)
		assert.NoError(t, err)
	})

	t.Run("validation does not touch the upstream model", func(t *testing.T) {
		before := classes.Diagram()
		_, _ = BuildObjectDiagram(librarySnapshot(), classes)
		assert.Equal(t, before, classes.Diagram())
	})
}
