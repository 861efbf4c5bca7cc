package model

import "slices"

// ---------------------------------------------------------------------------
// Use-case descriptions
// ---------------------------------------------------------------------------

// Step is one numbered step of a scenario.
type Step struct {
	ID             int    `yaml:"id" json:"id"`
	Actor          string `yaml:"actor" json:"actor"`
	Action         string `yaml:"action" json:"action"`
	SystemResponse string `yaml:"system_response,omitempty" json:"system_response,omitempty"`
}

// Extension branches off the main success scenario at StepNumber and may
// resume at ReturnToStep.
type Extension struct {
	StepNumber   int    `yaml:"step_number" json:"step_number"`
	Condition    string `yaml:"condition" json:"condition"`
	Steps        []Step `yaml:"steps,omitempty" json:"steps,omitempty"`
	ReturnToStep *int   `yaml:"return_to_step,omitempty" json:"return_to_step,omitempty"`
}

// Condition is a pre- or post-condition statement.
type Condition struct {
	Condition string `yaml:"condition" json:"condition"`
}

// UseCaseDescription is the fully dressed text of one use case.
type UseCaseDescription struct {
	DiagramID           DiagramID   `yaml:"diagram_id" json:"diagram_id"`
	UseCaseID           ElementID   `yaml:"use_case_id" json:"use_case_id"`
	Goal                string      `yaml:"goal" json:"goal"`
	PrimaryActor        string      `yaml:"primary_actor" json:"primary_actor"`
	Scope               string      `yaml:"scope,omitempty" json:"scope,omitempty"`
	Level               string      `yaml:"level,omitempty" json:"level,omitempty"`
	Stakeholders        []string    `yaml:"stakeholders,omitempty" json:"stakeholders,omitempty"`
	Preconditions       []Condition `yaml:"preconditions,omitempty" json:"preconditions,omitempty"`
	MainSuccessScenario []Step      `yaml:"main_success_scenario" json:"main_success_scenario"`
	Extensions          []Extension `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	SuccessGuarantee    []Condition `yaml:"success_guarantee,omitempty" json:"success_guarantee,omitempty"`
	MinimalGuarantee    []Condition `yaml:"minimal_guarantee,omitempty" json:"minimal_guarantee,omitempty"`
}

// Ref returns the (diagram, use case) address this description documents.
func (d UseCaseDescription) Ref() ElementRef {
	return ElementRef{DiagramID: d.DiagramID, ElementID: d.UseCaseID}
}

func (d UseCaseDescription) clone() UseCaseDescription {
	d.Stakeholders = slices.Clone(d.Stakeholders)
	d.Preconditions = slices.Clone(d.Preconditions)
	d.MainSuccessScenario = slices.Clone(d.MainSuccessScenario)
	exts := make([]Extension, len(d.Extensions))
	for i, e := range d.Extensions {
		e.Steps = slices.Clone(e.Steps)
		if e.ReturnToStep != nil {
			r := *e.ReturnToStep
			e.ReturnToStep = &r
		}
		exts[i] = e
	}
	if d.Extensions == nil {
		exts = nil
	}
	d.Extensions = exts
	d.SuccessGuarantee = slices.Clone(d.SuccessGuarantee)
	d.MinimalGuarantee = slices.Clone(d.MinimalGuarantee)
	return d
}

// ValidateDescription checks step id uniqueness and that every extension
// points at an existing main-scenario step.
func ValidateDescription(d UseCaseDescription) error {
	scope := scopef("use case description %s", d.Ref())
	ids := make([]int, len(d.MainSuccessScenario))
	for i, s := range d.MainSuccessScenario {
		ids[i] = s.ID
	}
	if err := uniqueOrFinding(ids, scope, "main scenario step id"); err != nil {
		return err
	}

	maxStep := 0
	if len(ids) > 0 {
		maxStep = slices.Max(ids)
	}
	expected := scopef("1..%d", maxStep)
	for i, e := range d.Extensions {
		if e.StepNumber < 1 || e.StepNumber > maxStep {
			return newFinding(KindStepReferenceOutOfRange, scope, scopef("extension %d step_number", i+1), e.StepNumber, expected)
		}
		if e.ReturnToStep != nil && (*e.ReturnToStep < 1 || *e.ReturnToStep > maxStep) {
			return newFinding(KindStepReferenceOutOfRange, scope, scopef("extension %d return_to_step", i+1), *e.ReturnToStep, expected)
		}
	}
	return nil
}

// UseCaseDescriptionCollection is the candidate form of a project's
// descriptions.
type UseCaseDescriptionCollection struct {
	ProjectName  string               `yaml:"project_name" json:"project_name"`
	Descriptions []UseCaseDescription `yaml:"descriptions" json:"descriptions"`
}

// ValidateDescriptionCollection checks each description and the uniqueness
// of (diagram_id, use_case_id). A non-nil upstream additionally requires
// every description to document an existing use case.
func ValidateDescriptionCollection(c UseCaseDescriptionCollection, upstream *UseCaseCollection) error {
	scope := scopef("use case description collection %q", c.ProjectName)
	refs := make([]ElementRef, len(c.Descriptions))
	for i, d := range c.Descriptions {
		refs[i] = d.Ref()
	}
	if err := uniqueOrFinding(refs, scope, "(diagram_id, use_case_id)"); err != nil {
		return err
	}
	for _, d := range c.Descriptions {
		if err := ValidateDescription(d); err != nil {
			return err
		}
		if upstream != nil && !upstream.HasUseCase(d.DiagramID, d.UseCaseID) {
			return newFinding(KindDanglingReference, scope, "description", d.Ref(), "use case in collection "+upstream.ProjectName())
		}
	}
	return nil
}

// DescriptionCollection is a validated description collection.
type DescriptionCollection struct {
	projectName  string
	descriptions []UseCaseDescription
	upstream     *UseCaseCollection
}

// BuildDescriptionCollection validates c and returns an immutable handle.
// upstream may be nil when the use-case layer is not available.
func BuildDescriptionCollection(c UseCaseDescriptionCollection, upstream *UseCaseCollection) (*DescriptionCollection, error) {
	if err := ValidateDescriptionCollection(c, upstream); err != nil {
		return nil, err
	}
	out := &DescriptionCollection{projectName: c.ProjectName, upstream: upstream}
	for _, d := range c.Descriptions {
		out.descriptions = append(out.descriptions, d.clone())
	}
	return out, nil
}

func (c *DescriptionCollection) ProjectName() string { return c.projectName }
func (c *DescriptionCollection) Upstream() *UseCaseCollection { return c.upstream }
func (c *DescriptionCollection) Len() int { return len(c.descriptions) }

// Descriptions returns copies of the descriptions in declaration order.
func (c *DescriptionCollection) Descriptions() []UseCaseDescription {
	out := make([]UseCaseDescription, len(c.descriptions))
	for i, d := range c.descriptions {
		out[i] = d.clone()
	}
	return out
}
