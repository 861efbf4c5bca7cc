package model

import "slices"

// ---------------------------------------------------------------------------
// Object diagram
// ---------------------------------------------------------------------------

type AttributeValue struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Object is a snapshot instance of a class.
type Object struct {
	ID              ElementID        `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	ClassName       string           `yaml:"class_name" json:"class_name"`
	AttributeValues []AttributeValue `yaml:"attribute_values,omitempty" json:"attribute_values,omitempty"`
}

// Link connects two objects. It must be backed by an association between
// their classes.
type Link struct {
	SourceID ElementID `yaml:"source_id" json:"source_id"`
	TargetID ElementID `yaml:"target_id" json:"target_id"`
	Name     string    `yaml:"name,omitempty" json:"name,omitempty"`
}

// ObjectDiagram is the candidate form of an object diagram. ClassDiagram
// names the upstream class diagram by id.
type ObjectDiagram struct {
	ID           DiagramID `yaml:"id" json:"id"`
	Name         string    `yaml:"name" json:"name"`
	ClassDiagram DiagramID `yaml:"class_diagram" json:"class_diagram"`
	Objects      []Object  `yaml:"objects" json:"objects"`
	Links        []Link    `yaml:"links,omitempty" json:"links,omitempty"`
}

func (d ObjectDiagram) clone() ObjectDiagram {
	objects := make([]Object, len(d.Objects))
	for i, o := range d.Objects {
		o.AttributeValues = slices.Clone(o.AttributeValues)
		objects[i] = o
	}
	if d.Objects == nil {
		objects = nil
	}
	d.Objects = objects
	d.Links = slices.Clone(d.Links)
	return d
}

// ValidateObjectDiagram checks d against its class diagram. Multiplicities
// are not enforced here; a link only needs some association between the
// two classes.
func ValidateObjectDiagram(d ObjectDiagram, classes *ClassModel) error {
	scope := scopef("object diagram %d", d.ID)
	if classes == nil || classes.ID() != d.ClassDiagram {
		return newFinding(KindDanglingReference, scope, "class diagram", d.ClassDiagram, "validated class diagram")
	}

	ids := make([]ElementID, len(d.Objects))
	for i, o := range d.Objects {
		ids[i] = o.ID
	}
	if err := uniqueOrFinding(ids, scope, "object id"); err != nil {
		return err
	}

	classOf := make(map[ElementID]string, len(d.Objects))
	for _, o := range d.Objects {
		subject := scopef("object %d", o.ID)
		if _, ok := classes.Class(o.ClassName); !ok {
			return newFinding(KindDanglingReference, scope, subject+" class", o.ClassName, "class of diagram "+classes.Name())
		}
		names := make([]string, len(o.AttributeValues))
		for i, av := range o.AttributeValues {
			names[i] = av.Name
		}
		if err := uniqueOrFinding(names, scope, subject+" attribute value"); err != nil {
			return err
		}
		for _, av := range o.AttributeValues {
			if !classes.HasAttribute(o.ClassName, av.Name) {
				return newFinding(KindAttributeNotDeclared, scope, subject+" attribute", av.Name, "attribute of "+o.ClassName)
			}
		}
		classOf[o.ID] = o.ClassName
	}

	for _, l := range d.Links {
		edge := scopef("link %d-%d", l.SourceID, l.TargetID)
		src, ok := classOf[l.SourceID]
		if !ok {
			return newFinding(KindDanglingReference, scope, edge+" source", l.SourceID, "object id")
		}
		dst, ok := classOf[l.TargetID]
		if !ok {
			return newFinding(KindDanglingReference, scope, edge+" target", l.TargetID, "object id")
		}
		if !classes.Associated(src, dst) {
			key := canonicalPair(src, dst)
			return newFinding(KindAssociationNotDeclared, scope, edge, key.a+"-"+key.b, "association between the two classes")
		}
	}
	return nil
}

// ObjectModel is a validated object diagram layered over a class model.
type ObjectModel struct {
	d       ObjectDiagram
	classes *ClassModel
}

// BuildObjectDiagram validates d against classes and returns an immutable
// handle.
func BuildObjectDiagram(d ObjectDiagram, classes *ClassModel) (*ObjectModel, error) {
	if err := ValidateObjectDiagram(d, classes); err != nil {
		return nil, err
	}
	return &ObjectModel{d: d.clone(), classes: classes}, nil
}

func (m *ObjectModel) ID() DiagramID { return m.d.ID }
func (m *ObjectModel) Name() string { return m.d.Name }
func (m *ObjectModel) Upstream() *ClassModel { return m.classes }
func (m *ObjectModel) Diagram() ObjectDiagram { return m.d.clone() }
