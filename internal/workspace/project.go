package workspace

// project.go — assembling decoded documents into validated models.
//
// Layers are built upstream first: the use-case model, then everything
// that references it (descriptions, activities, requirements), then class
// diagrams and the object diagrams that instantiate them, then CRC cards.
// The first failure aborts assembly and is returned wrapped with the name
// of the document that caused it.

import (
	"fmt"
	"strings"

	"blueprint/internal/model"
)

// Project is a fully validated set of design documents.
type Project struct {
	Name         string
	UseCases     *model.UseCaseCollection // nil when the project has no use-case model
	Descriptions []*model.DescriptionCollection
	Activities   []*model.ActivityCollection
	Requirements []*model.RequirementModel
	Classes      []*model.ClassModel
	Objects      []*model.ObjectModel
	CRC          []*model.CRCModel
}

// Summary counts what a project contains.
type Summary struct {
	Name             string `json:"name" yaml:"name"`
	UseCaseDiagrams  int    `json:"use_case_diagrams" yaml:"use_case_diagrams"`
	Descriptions     int    `json:"descriptions" yaml:"descriptions"`
	ActivityDiagrams int    `json:"activity_diagrams" yaml:"activity_diagrams"`
	Requirements     int    `json:"requirements" yaml:"requirements"`
	ClassDiagrams    int    `json:"class_diagrams" yaml:"class_diagrams"`
	ObjectDiagrams   int    `json:"object_diagrams" yaml:"object_diagrams"`
	CRCCards         int    `json:"crc_cards" yaml:"crc_cards"`
}

func (p *Project) Summary() Summary {
	s := Summary{
		Name:             p.Name,
		ActivityDiagrams: len(p.ActivityDiagrams()),
		ClassDiagrams:    len(p.Classes),
		ObjectDiagrams:   len(p.Objects),
	}
	if p.UseCases != nil {
		s.UseCaseDiagrams = len(p.UseCases.Diagrams())
	}
	for _, d := range p.Descriptions {
		s.Descriptions += d.Len()
	}
	for _, r := range p.Requirements {
		s.Requirements += r.Len()
	}
	for _, c := range p.CRC {
		s.CRCCards += c.Len()
	}
	return s
}

// ActivityDiagrams returns every activity diagram of the project, in
// document then declaration order.
func (p *Project) ActivityDiagrams() []*model.ActivityModel {
	var out []*model.ActivityModel
	for _, c := range p.Activities {
		out = append(out, c.Diagrams()...)
	}
	return out
}

// ActivityDiagram looks up an activity diagram by id across all activity
// documents.
func (p *Project) ActivityDiagram(id model.DiagramID) (*model.ActivityModel, bool) {
	for _, c := range p.Activities {
		if d, ok := c.Diagram(id); ok {
			return d, true
		}
	}
	return nil, false
}

// Assemble validates docs in dependency order. name is the project name;
// when empty, the use-case model's project name is used.
func Assemble(name string, docs []Document) (*Project, error) {
	byKind := make(map[Kind][]Document)
	for _, d := range docs {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}
	p := &Project{Name: name}

	if ucs := byKind[KindUseCaseModel]; len(ucs) > 1 {
		var names []string
		for _, d := range ucs {
			names = append(names, d.Source)
		}
		return nil, fmt.Errorf("at most one %s document per project, found %s", KindUseCaseModel, strings.Join(names, ", "))
	} else if len(ucs) == 1 {
		c, err := model.BuildUseCaseCollection(ucs[0].Payload.(model.UseCaseModelCollection))
		if err != nil {
			return nil, wrap(ucs[0], err)
		}
		p.UseCases = c
		if p.Name == "" {
			p.Name = c.ProjectName()
		}
	}

	for _, d := range byKind[KindUseCaseDescriptions] {
		c, err := model.BuildDescriptionCollection(d.Payload.(model.UseCaseDescriptionCollection), p.UseCases)
		if err != nil {
			return nil, wrap(d, err)
		}
		p.Descriptions = append(p.Descriptions, c)
	}

	activityIDs := make(map[model.DiagramID]string)
	for _, d := range byKind[KindActivityModel] {
		c, err := model.BuildActivityCollection(d.Payload.(model.ActivityModelCollection), p.UseCases)
		if err != nil {
			return nil, wrap(d, err)
		}
		for _, a := range c.Diagrams() {
			if prev, ok := activityIDs[a.ID()]; ok {
				return nil, wrap(d, projectDuplicate(p.Name, "activity diagram id", a.ID(), prev))
			}
			activityIDs[a.ID()] = d.Source
		}
		p.Activities = append(p.Activities, c)
	}

	for _, d := range byKind[KindRequirements] {
		r, err := model.BuildRequirements(d.Payload.(model.RequirementSet), p.UseCases)
		if err != nil {
			return nil, wrap(d, err)
		}
		p.Requirements = append(p.Requirements, r)
	}

	classes := make(map[model.DiagramID]*model.ClassModel)
	classSource := make(map[model.DiagramID]string)
	for _, d := range byKind[KindClassDiagram] {
		m, err := model.BuildClassDiagram(d.Payload.(model.ClassDiagram))
		if err != nil {
			return nil, wrap(d, err)
		}
		if prev, ok := classSource[m.ID()]; ok {
			return nil, wrap(d, projectDuplicate(p.Name, "class diagram id", m.ID(), prev))
		}
		classes[m.ID()] = m
		classSource[m.ID()] = d.Source
		p.Classes = append(p.Classes, m)
	}

	for _, d := range byKind[KindObjectDiagram] {
		od := d.Payload.(model.ObjectDiagram)
		// A missing class diagram passes nil, which the object
		// validator reports as a dangling reference.
		m, err := model.BuildObjectDiagram(od, classes[od.ClassDiagram])
		if err != nil {
			return nil, wrap(d, err)
		}
		p.Objects = append(p.Objects, m)
	}

	for _, d := range byKind[KindCRCCards] {
		m, err := model.BuildCRCCards(d.Payload.(model.CRCCardSet))
		if err != nil {
			return nil, wrap(d, err)
		}
		p.CRC = append(p.CRC, m)
	}
	return p, nil
}

func wrap(d Document, err error) error {
	return fmt.Errorf("%s: %w", d.Source, err)
}

func projectDuplicate(project, subject string, id model.DiagramID, firstSeen string) *model.Finding {
	return &model.Finding{
		Kind:     model.KindDuplicateIdentifier,
		Scope:    fmt.Sprintf("project %q", project),
		Subject:  subject,
		Value:    fmt.Sprint(id),
		Expected: "unique across documents, first declared in " + firstSeen,
	}
}
