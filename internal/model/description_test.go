package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func loginDescription() UseCaseDescription {
	return UseCaseDescription{
		DiagramID:    1,
		UseCaseID:    1,
		Goal:         "Customer gets into their account",
		PrimaryActor: "Customer",
		MainSuccessScenario: []Step{
			{ID: 1, Actor: "Customer", Action: "enters credentials"},
			{ID: 2, Actor: "System", Action: "checks credentials", SystemResponse: "ok"},
			{ID: 3, Actor: "System", Action: "shows dashboard"},
		},
		Extensions: []Extension{
			{StepNumber: 2, Condition: "wrong password", Steps: []Step{{ID: 1, Actor: "System", Action: "shows error"}}, ReturnToStep: intPtr(1)},
		},
		SuccessGuarantee: []Condition{{Condition: "session open"}},
	}
}

func TestValidateDescription(t *testing.T) {
	t.Run("accepts", func(t *testing.T) {
		assert.NoError(t, ValidateDescription(loginDescription()))
	})

	t.Run("duplicate step id", func(t *testing.T) {
		d := loginDescription()
		d.MainSuccessScenario[2].ID = 2
		err := ValidateDescription(d)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, "use case description 1/1", f.Scope)
	})

	tests := []struct {
		name    string
		mutate  func(*UseCaseDescription)
		subject string
		value   string
	}{
		{"step number past the scenario", func(d *UseCaseDescription) { d.Extensions[0].StepNumber = 4 }, "extension 1 step_number", "4"},
		{"step number zero", func(d *UseCaseDescription) { d.Extensions[0].StepNumber = 0 }, "extension 1 step_number", "0"},
		{"return past the scenario", func(d *UseCaseDescription) { d.Extensions[0].ReturnToStep = intPtr(9) }, "extension 1 return_to_step", "9"},
		{"return to zero", func(d *UseCaseDescription) { d.Extensions[0].ReturnToStep = intPtr(0) }, "extension 1 return_to_step", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := loginDescription()
			tt.mutate(&d)
			err := ValidateDescription(d)
			require.ErrorIs(t, err, ErrStepReferenceOutOfRange)
			f, _ := AsFinding(err)
			assert.Equal(t, tt.subject, f.Subject)
			assert.Equal(t, tt.value, f.Value)
			assert.Equal(t, "1..3", f.Expected)
		})
	}

	t.Run("extension without return is fine", func(t *testing.T) {
		d := loginDescription()
		d.Extensions[0].ReturnToStep = nil
		assert.NoError(t, ValidateDescription(d))
	})

	// Step references are 1-based even when the scenario numbers from 0.
	t.Run("zero-based scenario cannot reference step 0", func(t *testing.T) {
		d := loginDescription()
		for i := range d.MainSuccessScenario {
			d.MainSuccessScenario[i].ID = i
		}
		d.Extensions[0].StepNumber = 0
		d.Extensions[0].ReturnToStep = nil
		err := ValidateDescription(d)
		require.ErrorIs(t, err, ErrStepReferenceOutOfRange)
		f, _ := AsFinding(err)
		assert.Equal(t, "extension 1 step_number", f.Subject)
		assert.Equal(t, "1..2", f.Expected)

		d.Extensions[0].StepNumber = 1
		d.Extensions[0].ReturnToStep = intPtr(0)
		err = ValidateDescription(d)
		require.ErrorIs(t, err, ErrStepReferenceOutOfRange)
		f, _ = AsFinding(err)
		assert.Equal(t, "extension 1 return_to_step", f.Subject)

		d.Extensions[0].ReturnToStep = intPtr(2)
		assert.NoError(t, ValidateDescription(d))
	})

	t.Run("empty scenario rejects any extension", func(t *testing.T) {
		d := loginDescription()
		d.MainSuccessScenario = nil
		assert.ErrorIs(t, ValidateDescription(d), ErrStepReferenceOutOfRange)
	})
}

func TestBuildDescriptionCollection(t *testing.T) {
	ucs := shopUseCases(t)

	t.Run("accepts with and without upstream", func(t *testing.T) {
		c := UseCaseDescriptionCollection{ProjectName: "shop", Descriptions: []UseCaseDescription{loginDescription()}}
		m, err := BuildDescriptionCollection(c, ucs)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Len())
		assert.Same(t, ucs, m.Upstream())

		m, err = BuildDescriptionCollection(c, nil)
		require.NoError(t, err)
		assert.Nil(t, m.Upstream())
	})

	t.Run("two descriptions of the same use case", func(t *testing.T) {
		c := UseCaseDescriptionCollection{
			ProjectName:  "shop",
			Descriptions: []UseCaseDescription{loginDescription(), loginDescription()},
		}
		_, err := BuildDescriptionCollection(c, ucs)
		require.ErrorIs(t, err, ErrDuplicateIdentifier)
		f, _ := AsFinding(err)
		assert.Equal(t, "1/1", f.Value)
	})

	t.Run("description of a use case that does not exist", func(t *testing.T) {
		d := loginDescription()
		d.UseCaseID = 40
		_, err := BuildDescriptionCollection(UseCaseDescriptionCollection{ProjectName: "shop", Descriptions: []UseCaseDescription{d}}, ucs)
		assert.ErrorIs(t, err, ErrDanglingReference)

		_, err = BuildDescriptionCollection(UseCaseDescriptionCollection{ProjectName: "shop", Descriptions: []UseCaseDescription{d}}, nil)
		assert.NoError(t, err)
	})

	t.Run("copies out", func(t *testing.T) {
		m, err := BuildDescriptionCollection(UseCaseDescriptionCollection{ProjectName: "shop", Descriptions: []UseCaseDescription{loginDescription()}}, nil)
		require.NoError(t, err)
		got := m.Descriptions()
		*got[0].Extensions[0].ReturnToStep = 3
		assert.Equal(t, 1, *m.Descriptions()[0].Extensions[0].ReturnToStep)
	})
}
