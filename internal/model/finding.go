package model

// finding.go — structured validation failures.
//
// A Finding is the single error a Build/Validate call returns when the
// candidate breaks an invariant. It names the kind of violation, the owning
// diagram or collection, the entity that broke it, and the offending value.

import (
	"errors"
	"fmt"
	"strings"
)

// FindingKind classifies a validation failure.
type FindingKind string

const (
	KindDuplicateIdentifier             FindingKind = "DuplicateIdentifier"
	KindDanglingReference               FindingKind = "DanglingReference"
	KindStructuralShapeViolation        FindingKind = "StructuralShapeViolation"
	KindCyclicInheritance               FindingKind = "CyclicInheritance"
	KindUnknownCollaboratorOrSuperclass FindingKind = "UnknownCollaboratorOrSuperclass"
	KindAttributeNotDeclared            FindingKind = "AttributeNotDeclared"
	KindAssociationNotDeclared          FindingKind = "AssociationNotDeclared"
	KindStepReferenceOutOfRange         FindingKind = "StepReferenceOutOfRange"
)

// FindingKinds lists every kind in a stable order.
var FindingKinds = []FindingKind{
	KindDuplicateIdentifier,
	KindDanglingReference,
	KindStructuralShapeViolation,
	KindCyclicInheritance,
	KindUnknownCollaboratorOrSuperclass,
	KindAttributeNotDeclared,
	KindAssociationNotDeclared,
	KindStepReferenceOutOfRange,
}

// Sentinel errors, one per kind. A *Finding matches its kind's sentinel
// under errors.Is.
var (
	ErrDuplicateIdentifier             = errors.New("duplicate identifier")
	ErrDanglingReference               = errors.New("dangling reference")
	ErrStructuralShapeViolation        = errors.New("structural shape violation")
	ErrCyclicInheritance               = errors.New("cyclic inheritance")
	ErrUnknownCollaboratorOrSuperclass = errors.New("unknown collaborator or superclass")
	ErrAttributeNotDeclared            = errors.New("attribute not declared")
	ErrAssociationNotDeclared          = errors.New("association not declared")
	ErrStepReferenceOutOfRange         = errors.New("step reference out of range")
)

var sentinels = map[FindingKind]error{
	KindDuplicateIdentifier:             ErrDuplicateIdentifier,
	KindDanglingReference:               ErrDanglingReference,
	KindStructuralShapeViolation:        ErrStructuralShapeViolation,
	KindCyclicInheritance:               ErrCyclicInheritance,
	KindUnknownCollaboratorOrSuperclass: ErrUnknownCollaboratorOrSuperclass,
	KindAttributeNotDeclared:            ErrAttributeNotDeclared,
	KindAssociationNotDeclared:          ErrAssociationNotDeclared,
	KindStepReferenceOutOfRange:         ErrStepReferenceOutOfRange,
}

// Finding is a single violated invariant.
type Finding struct {
	Kind     FindingKind `json:"kind" yaml:"kind"`
	Scope    string      `json:"scope" yaml:"scope"`     // owning diagram or collection, e.g. "activity diagram 3"
	Subject  string      `json:"subject" yaml:"subject"` // entity that broke the rule, e.g. "flow 2->9"
	Value    string      `json:"value" yaml:"value"`     // offending id or name
	Expected string      `json:"expected,omitempty" yaml:"expected,omitempty"`
}

func (f *Finding) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s %q", f.Kind, f.Scope, f.Subject, f.Value)
	if f.Expected != "" {
		b.WriteString(" (expected " + f.Expected + ")")
	}
	return b.String()
}

// Is reports whether target is the sentinel for f.Kind, or another Finding
// of the same kind.
func (f *Finding) Is(target error) bool {
	if s, ok := sentinels[f.Kind]; ok && s == target {
		return true
	}
	var other *Finding
	if errors.As(target, &other) {
		return other.Kind == f.Kind
	}
	return false
}

// AsFinding unwraps err to a *Finding, if there is one in the chain.
func AsFinding(err error) (*Finding, bool) {
	var f *Finding
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func newFinding(kind FindingKind, scope, subject string, value any, expected string) *Finding {
	return &Finding{
		Kind:     kind,
		Scope:    scope,
		Subject:  subject,
		Value:    fmt.Sprint(value),
		Expected: expected,
	}
}
