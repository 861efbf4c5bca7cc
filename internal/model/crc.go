package model

import "slices"

// ---------------------------------------------------------------------------
// CRC cards
// ---------------------------------------------------------------------------

// Responsibility is something a class knows or does, with the classes it
// needs to collaborate with.
type Responsibility struct {
	Description   string   `yaml:"description" json:"description"`
	Collaborators []string `yaml:"collaborators,omitempty" json:"collaborators,omitempty"`
}

// CRCCard is a class-responsibility-collaborator card. Superclass,
// subclasses and collaborators are soft references to other cards of the
// same set, by class name.
type CRCCard struct {
	ClassName        string           `yaml:"class_name" json:"class_name"`
	Superclass       string           `yaml:"superclass,omitempty" json:"superclass,omitempty"`
	Subclasses       []string         `yaml:"subclasses,omitempty" json:"subclasses,omitempty"`
	Attributes       []string         `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Responsibilities []Responsibility `yaml:"responsibilities,omitempty" json:"responsibilities,omitempty"`
}

func (c CRCCard) clone() CRCCard {
	c.Subclasses = slices.Clone(c.Subclasses)
	c.Attributes = slices.Clone(c.Attributes)
	rs := make([]Responsibility, len(c.Responsibilities))
	for i, r := range c.Responsibilities {
		r.Collaborators = slices.Clone(r.Collaborators)
		rs[i] = r
	}
	if c.Responsibilities == nil {
		rs = nil
	}
	c.Responsibilities = rs
	return c
}

// CRCCardSet is the candidate form of a card set.
type CRCCardSet struct {
	Name  string    `yaml:"name" json:"name"`
	Cards []CRCCard `yaml:"cards" json:"cards"`
}

// ValidateCRCCards checks card name uniqueness, that every superclass,
// subclass and collaborator names a card of the set, and that superclass
// chains are acyclic.
func ValidateCRCCards(s CRCCardSet) error {
	scope := scopef("crc card set %q", s.Name)
	names := make([]string, len(s.Cards))
	for i, c := range s.Cards {
		names[i] = c.ClassName
	}
	if err := uniqueOrFinding(names, scope, "card class name"); err != nil {
		return err
	}
	known := set(names)

	parent := make(map[string]string)
	var children []string
	for _, c := range s.Cards {
		subject := "card " + c.ClassName
		if c.Superclass != "" {
			if !has(known, c.Superclass) {
				return newFinding(KindUnknownCollaboratorOrSuperclass, scope, subject+" superclass", c.Superclass, "card class name")
			}
			parent[c.ClassName] = c.Superclass
			children = append(children, c.ClassName)
		}
		for _, sub := range c.Subclasses {
			if !has(known, sub) {
				return newFinding(KindUnknownCollaboratorOrSuperclass, scope, subject+" subclass", sub, "card class name")
			}
		}
		for _, r := range c.Responsibilities {
			for _, collab := range r.Collaborators {
				if !has(known, collab) {
					return newFinding(KindUnknownCollaboratorOrSuperclass, scope, subject+" collaborator", collab, "card class name")
				}
			}
		}
	}

	if name, ok := findInheritanceCycle(children, parent); ok {
		return newFinding(KindCyclicInheritance, scope, "superclass chain", name, "acyclic superclass chain")
	}
	return nil
}

// CRCModel is a validated CRC card set.
type CRCModel struct {
	name  string
	cards []CRCCard
}

// BuildCRCCards validates s and returns an immutable handle.
func BuildCRCCards(s CRCCardSet) (*CRCModel, error) {
	if err := ValidateCRCCards(s); err != nil {
		return nil, err
	}
	m := &CRCModel{name: s.Name}
	for _, c := range s.Cards {
		m.cards = append(m.cards, c.clone())
	}
	return m, nil
}

func (m *CRCModel) Name() string { return m.name }
func (m *CRCModel) Len() int { return len(m.cards) }

// Card looks up a card by class name.
func (m *CRCModel) Card(name string) (CRCCard, bool) {
	for _, c := range m.cards {
		if c.ClassName == name {
			return c.clone(), true
		}
	}
	return CRCCard{}, false
}

// Cards returns copies of the cards in declaration order.
func (m *CRCModel) Cards() []CRCCard {
	out := make([]CRCCard, len(m.cards))
	for i, c := range m.cards {
		out[i] = c.clone()
	}
	return out
}
