package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryCards() CRCCardSet {
	return CRCCardSet{
		Name: "library",
		Cards: []CRCCard{
			{ClassName: "Person", Subclasses: []string{"Member"}},
			{
				ClassName:  "Member",
				Superclass: "Person",
				Attributes: []string{"card"},
				Responsibilities: []Responsibility{
					{Description: "borrow books", Collaborators: []string{"Loan", "Book"}},
				},
			},
			{ClassName: "Book", Responsibilities: []Responsibility{{Description: "know its title"}}},
			{ClassName: "Loan", Responsibilities: []Responsibility{{Description: "track due date", Collaborators: []string{"Book"}}}},
		},
	}
}

func TestBuildCRCCards(t *testing.T) {
	t.Run("accepts", func(t *testing.T) {
		m, err := BuildCRCCards(libraryCards())
		require.NoError(t, err)
		assert.Equal(t, "library", m.Name())
		assert.Equal(t, 4, m.Len())
		c, ok := m.Card("Member")
		require.True(t, ok)
		assert.Equal(t, "Person", c.Superclass)
		_, ok = m.Card("Shelf")
		assert.False(t, ok)
	})

	t.Run("duplicate card", func(t *testing.T) {
		s := libraryCards()
		s.Cards = append(s.Cards, CRCCard{ClassName: "Loan"})
		_, err := BuildCRCCards(s)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, "Loan", f.Value)
	})

	tests := []struct {
		name   string
		mutate func(*CRCCardSet)
		value  string
	}{
		{"unknown superclass", func(s *CRCCardSet) { s.Cards[2].Superclass = "Item" }, "Item"},
		{"unknown subclass", func(s *CRCCardSet) { s.Cards[0].Subclasses = append(s.Cards[0].Subclasses, "Staff") }, "Staff"},
		{"unknown collaborator", func(s *CRCCardSet) {
			s.Cards[3].Responsibilities[0].Collaborators = []string{"Calendar"}
		}, "Calendar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := libraryCards()
			tt.mutate(&s)
			_, err := BuildCRCCards(s)
			require.ErrorIs(t, err, ErrUnknownCollaboratorOrSuperclass)
			f, _ := AsFinding(err)
			assert.Equal(t, tt.value, f.Value)
			assert.Equal(t, `crc card set "library"`, f.Scope)
		})
	}

	t.Run("superclass cycle", func(t *testing.T) {
		s := libraryCards()
		s.Cards[0].Superclass = "Member"
		_, err := BuildCRCCards(s)
		assert.ErrorIs(t, err, ErrCyclicInheritance)
	})

	t.Run("self superclass", func(t *testing.T) {
		s := libraryCards()
		s.Cards[2].Superclass = "Book"
		_, err := BuildCRCCards(s)
		assert.ErrorIs(t, err, ErrCyclicInheritance)
	})
}

func TestCRCModelCopiesOut(t *testing.T) {
	m, err := BuildCRCCards(libraryCards())
	require.NoError(t, err)
	cards := m.Cards()
	cards[1].Responsibilities[0].Collaborators[0] = "Nothing"
	c, _ := m.Card("Member")
	assert.Equal(t, []string{"Loan", "Book"}, c.Responsibilities[0].Collaborators)
}
