package model

import "slices"

// ---------------------------------------------------------------------------
// Class diagram
// ---------------------------------------------------------------------------

type Attribute struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Visibility string `yaml:"visibility,omitempty" json:"visibility,omitempty"`
}

type Parameter struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

type Method struct {
	Name       string      `yaml:"name" json:"name"`
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	ReturnType string      `yaml:"return_type,omitempty" json:"return_type,omitempty"`
	Visibility string      `yaml:"visibility,omitempty" json:"visibility,omitempty"`
}

// Class is a UML class. Classes are identified by name.
type Class struct {
	Name       string      `yaml:"name" json:"name"`
	Stereotype string      `yaml:"stereotype,omitempty" json:"stereotype,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Methods    []Method    `yaml:"methods,omitempty" json:"methods,omitempty"`
}

func (c Class) clone() Class {
	c.Attributes = slices.Clone(c.Attributes)
	methods := make([]Method, len(c.Methods))
	for i, m := range c.Methods {
		m.Parameters = slices.Clone(m.Parameters)
		methods[i] = m
	}
	if c.Methods == nil {
		methods = nil
	}
	c.Methods = methods
	return c
}

// Generalization states that Subclass inherits from Superclass.
type Generalization struct {
	Subclass   string `yaml:"subclass" json:"subclass"`
	Superclass string `yaml:"superclass" json:"superclass"`
}

// Association connects two classes. It is stored as an ordered pair but
// compared as an unordered one.
type Association struct {
	Source             string          `yaml:"source" json:"source"`
	Target             string          `yaml:"target" json:"target"`
	Kind               AssociationKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Name               string          `yaml:"name,omitempty" json:"name,omitempty"`
	SourceMultiplicity string          `yaml:"source_multiplicity,omitempty" json:"source_multiplicity,omitempty"`
	TargetMultiplicity string          `yaml:"target_multiplicity,omitempty" json:"target_multiplicity,omitempty"`
}

// ClassDiagram is the candidate form of a class diagram.
type ClassDiagram struct {
	ID              DiagramID        `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Classes         []Class          `yaml:"classes" json:"classes"`
	Generalizations []Generalization `yaml:"generalizations,omitempty" json:"generalizations,omitempty"`
	Associations    []Association    `yaml:"associations,omitempty" json:"associations,omitempty"`
}

func (d ClassDiagram) clone() ClassDiagram {
	classes := make([]Class, len(d.Classes))
	for i, c := range d.Classes {
		classes[i] = c.clone()
	}
	if d.Classes == nil {
		classes = nil
	}
	d.Classes = classes
	d.Generalizations = slices.Clone(d.Generalizations)
	d.Associations = slices.Clone(d.Associations)
	return d
}

// classIndex is the name -> entity index built once per validation pass.
type classIndex struct {
	classes map[string]int // name -> position in Classes
	parent  map[string]string
	assoc   map[pairKey]struct{}
}

func newClassIndex(d ClassDiagram) classIndex {
	ix := classIndex{
		classes: make(map[string]int, len(d.Classes)),
		parent:  make(map[string]string, len(d.Generalizations)),
		assoc:   make(map[pairKey]struct{}, len(d.Associations)),
	}
	for i, c := range d.Classes {
		ix.classes[c.Name] = i
	}
	for _, g := range d.Generalizations {
		ix.parent[g.Subclass] = g.Superclass
	}
	for _, a := range d.Associations {
		ix.assoc[canonicalPair(a.Source, a.Target)] = struct{}{}
	}
	return ix
}

// ValidateClassDiagram checks class and attribute name uniqueness,
// generalization and association endpoints, single inheritance and
// acyclicity.
func ValidateClassDiagram(d ClassDiagram) error {
	scope := scopef("class diagram %d", d.ID)

	names := make([]string, len(d.Classes))
	for i, c := range d.Classes {
		names[i] = c.Name
	}
	if err := uniqueOrFinding(names, scope, "class name"); err != nil {
		return err
	}
	for _, c := range d.Classes {
		attrs := make([]string, len(c.Attributes))
		for i, a := range c.Attributes {
			attrs[i] = a.Name
		}
		if err := uniqueOrFinding(attrs, scope, "attribute of class "+c.Name); err != nil {
			return err
		}
	}
	known := set(names)

	subclasses := make([]string, 0, len(d.Generalizations))
	for _, g := range d.Generalizations {
		if !has(known, g.Subclass) {
			return newFinding(KindUnknownCollaboratorOrSuperclass, scope, "generalization subclass", g.Subclass, "class name")
		}
		if !has(known, g.Superclass) {
			return newFinding(KindUnknownCollaboratorOrSuperclass, scope, "superclass of "+g.Subclass, g.Superclass, "class name")
		}
		if slices.Contains(subclasses, g.Subclass) {
			return newFinding(KindStructuralShapeViolation, scope, "generalization subclass", g.Subclass, "at most one superclass")
		}
		subclasses = append(subclasses, g.Subclass)
	}

	for _, a := range d.Associations {
		edge := scopef("association %s-%s", a.Source, a.Target)
		if !a.Kind.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, edge+" kind", a.Kind, "association|aggregation|composition")
		}
		if !has(known, a.Source) {
			return newFinding(KindDanglingReference, scope, edge+" source", a.Source, "class name")
		}
		if !has(known, a.Target) {
			return newFinding(KindDanglingReference, scope, edge+" target", a.Target, "class name")
		}
	}

	ix := newClassIndex(d)
	if name, ok := findInheritanceCycle(subclasses, ix.parent); ok {
		return newFinding(KindCyclicInheritance, scope, "generalization chain", name, "acyclic generalization")
	}
	return nil
}

// ClassModel is a validated class diagram. It is the upstream layer for
// object diagrams.
type ClassModel struct {
	d  ClassDiagram
	ix classIndex
}

// BuildClassDiagram validates d and returns an immutable handle.
func BuildClassDiagram(d ClassDiagram) (*ClassModel, error) {
	if err := ValidateClassDiagram(d); err != nil {
		return nil, err
	}
	d = d.clone()
	return &ClassModel{d: d, ix: newClassIndex(d)}, nil
}

func (m *ClassModel) ID() DiagramID { return m.d.ID }
func (m *ClassModel) Name() string { return m.d.Name }
func (m *ClassModel) Diagram() ClassDiagram { return m.d.clone() }

// Class looks up a class by name.
func (m *ClassModel) Class(name string) (Class, bool) {
	i, ok := m.ix.classes[name]
	if !ok {
		return Class{}, false
	}
	return m.d.Classes[i].clone(), true
}

// Superclass returns the direct superclass of name, if any.
func (m *ClassModel) Superclass(name string) (string, bool) {
	p, ok := m.ix.parent[name]
	return p, ok
}

// Lineage returns name followed by its superclass chain.
func (m *ClassModel) Lineage(name string) []string {
	return ancestors(name, m.ix.parent)
}

// HasAttribute reports whether class declares attr, directly or through a
// superclass.
func (m *ClassModel) HasAttribute(class, attr string) bool {
	for _, name := range m.Lineage(class) {
		i, ok := m.ix.classes[name]
		if !ok {
			continue
		}
		for _, a := range m.d.Classes[i].Attributes {
			if a.Name == attr {
				return true
			}
		}
	}
	return false
}

// Associated reports whether an association joins classes a and b in
// either order, directly or through their superclasses.
func (m *ClassModel) Associated(a, b string) bool {
	for _, x := range m.Lineage(a) {
		for _, y := range m.Lineage(b) {
			if has(m.ix.assoc, canonicalPair(x, y)) {
				return true
			}
		}
	}
	return false
}
