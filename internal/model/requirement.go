package model

// requirement.go — functional / non-functional requirements.
//
// A Requirement is a tagged variant: Type is the discriminant and exactly
// the payload it names must be set.

import "slices"

// RequirementType discriminates the payload of a Requirement.
type RequirementType string

const (
	RequirementFunctional    RequirementType = "functional"
	RequirementNonFunctional RequirementType = "non_functional"
)

func (t RequirementType) Valid() bool {
	return t == RequirementFunctional || t == RequirementNonFunctional
}

type FunctionalRequirement struct {
	Description string       `yaml:"description" json:"description"`
	Priority    string       `yaml:"priority,omitempty" json:"priority,omitempty"`
	UseCases    []ElementRef `yaml:"use_cases,omitempty" json:"use_cases,omitempty"`
}

type NonFunctionalRequirement struct {
	Category    string `yaml:"category" json:"category"` // e.g. performance, security, usability
	Description string `yaml:"description" json:"description"`
	Metric      string `yaml:"metric,omitempty" json:"metric,omitempty"`
}

type Requirement struct {
	ID            int                       `yaml:"id" json:"id"`
	Type          RequirementType           `yaml:"type" json:"type"`
	Functional    *FunctionalRequirement    `yaml:"functional,omitempty" json:"functional,omitempty"`
	NonFunctional *NonFunctionalRequirement `yaml:"non_functional,omitempty" json:"non_functional,omitempty"`
}

func (r Requirement) clone() Requirement {
	if r.Functional != nil {
		f := *r.Functional
		f.UseCases = slices.Clone(f.UseCases)
		r.Functional = &f
	}
	if r.NonFunctional != nil {
		nf := *r.NonFunctional
		r.NonFunctional = &nf
	}
	return r
}

// Description returns the text of whichever payload is set.
func (r Requirement) Description() string {
	switch r.Type {
	case RequirementFunctional:
		if r.Functional != nil {
			return r.Functional.Description
		}
	case RequirementNonFunctional:
		if r.NonFunctional != nil {
			return r.NonFunctional.Description
		}
	}
	return ""
}

type RequirementSet struct {
	ProjectName  string        `yaml:"project_name" json:"project_name"`
	Requirements []Requirement `yaml:"requirements" json:"requirements"`
}

// ValidateRequirements checks id uniqueness and payload/discriminant
// agreement. A non-nil upstream also resolves functional use-case refs.
func ValidateRequirements(s RequirementSet, upstream *UseCaseCollection) error {
	scope := scopef("requirement set %q", s.ProjectName)
	ids := make([]int, len(s.Requirements))
	for i, r := range s.Requirements {
		ids[i] = r.ID
	}
	if err := uniqueOrFinding(ids, scope, "requirement id"); err != nil {
		return err
	}

	for _, r := range s.Requirements {
		subject := scopef("requirement %d", r.ID)
		if !r.Type.Valid() {
			return newFinding(KindStructuralShapeViolation, scope, subject+" type", r.Type, "functional|non_functional")
		}
		fn, nfn := r.Functional != nil, r.NonFunctional != nil
		if r.Type == RequirementFunctional && (!fn || nfn) {
			return newFinding(KindStructuralShapeViolation, scope, subject+" payload", r.Type, "functional payload only")
		}
		if r.Type == RequirementNonFunctional && (!nfn || fn) {
			return newFinding(KindStructuralShapeViolation, scope, subject+" payload", r.Type, "non_functional payload only")
		}
		if fn && upstream != nil {
			for _, ref := range r.Functional.UseCases {
				if !upstream.HasUseCase(ref.DiagramID, ref.ElementID) {
					return newFinding(KindDanglingReference, scope, subject+" use case", ref, "use case in collection "+upstream.ProjectName())
				}
			}
		}
	}
	return nil
}

// RequirementModel is a validated requirement set.
type RequirementModel struct {
	projectName  string
	requirements []Requirement
}

// BuildRequirements validates s and returns an immutable handle. upstream
// may be nil.
func BuildRequirements(s RequirementSet, upstream *UseCaseCollection) (*RequirementModel, error) {
	if err := ValidateRequirements(s, upstream); err != nil {
		return nil, err
	}
	m := &RequirementModel{projectName: s.ProjectName}
	for _, r := range s.Requirements {
		m.requirements = append(m.requirements, r.clone())
	}
	return m, nil
}

func (m *RequirementModel) ProjectName() string { return m.projectName }
func (m *RequirementModel) Len() int { return len(m.requirements) }

// Requirements returns copies in declaration order.
func (m *RequirementModel) Requirements() []Requirement {
	out := make([]Requirement, len(m.requirements))
	for i, r := range m.requirements {
		out[i] = r.clone()
	}
	return out
}

// Count returns how many requirements carry the given discriminant.
func (m *RequirementModel) Count(t RequirementType) int {
	n := 0
	for _, r := range m.requirements {
		if r.Type == t {
			n++
		}
	}
	return n
}
