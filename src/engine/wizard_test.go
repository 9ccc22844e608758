package engine_test

import (
	"testing"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"

	"github.com/stretchr/testify/assert"
)

func TestWizardNavigation(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("NewStateStartsOnFirstStep", func(t *testing.T) {
		s := catalog.NewState()
		assert.Equal(t, 1, s.CurrentStep)
		assert.Equal(t, engine.PhaseEditing, s.Phase)
		assert.Empty(t, s.Answers)
	})

	t.Run("NextBlockedByInvalidStep", func(t *testing.T) {
		s := catalog.NewState()
		err := catalog.Next(s)

		var blocked *engine.ValidationBlockedError
		assert.ErrorAs(t, err, &blocked)
		assert.Equal(t, 1, blocked.Step)
		assert.Contains(t, blocked.Errors, "fullName")
		assert.Equal(t, 1, s.CurrentStep)
	})

	t.Run("NextAdvancesWhenValid", func(t *testing.T) {
		s := catalog.NewState()
		_, err := catalog.SetAnswer(s, "fullName", "Jordan Smith")
		assert.NoError(t, err)
		_, err = catalog.SetAnswer(s, "hasPriorExperience", true)
		assert.NoError(t, err)

		assert.NoError(t, catalog.Next(s))
		assert.Equal(t, 2, s.CurrentStep)
		assert.Equal(t, 1, s.HighestValidated)
	})

	t.Run("NextSkipsFullyHiddenStep", func(t *testing.T) {
		// With no prior experience every step-3 field is hidden, so Next
		// from step 2 lands directly on step 4.
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "hasPriorExperience", false)
		assert.NoError(t, catalog.Next(s))

		catalog.SetAnswer(s, "email", "jordan@example.com")
		assert.NoError(t, catalog.Next(s))
		assert.Equal(t, 4, s.CurrentStep)
	})

	t.Run("BackReturnsToPreviousVisibleStep", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "hasPriorExperience", false)
		catalog.Next(s)
		catalog.SetAnswer(s, "email", "jordan@example.com")
		catalog.Next(s)
		assert.Equal(t, 4, s.CurrentStep)

		assert.NoError(t, catalog.Back(s))
		assert.Equal(t, 2, s.CurrentStep)
	})

	t.Run("BackFromFirstStepFails", func(t *testing.T) {
		s := catalog.NewState()
		assert.ErrorIs(t, catalog.Back(s), engine.ErrNoPreviousStep)
	})

	t.Run("NextFromLastStepFails", func(t *testing.T) {
		s := catalog.NewState()
		for k, v := range validAnswers() {
			catalog.SetAnswer(s, k, v)
		}
		s.CurrentStep = 4
		assert.ErrorIs(t, catalog.Next(s), engine.ErrNoNextStep)
	})

	t.Run("JumpBackToValidatedStep", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "hasPriorExperience", false)
		catalog.Next(s)

		assert.NoError(t, catalog.JumpTo(s, 1))
		assert.Equal(t, 1, s.CurrentStep)
	})

	t.Run("JumpAheadOfValidationRefused", func(t *testing.T) {
		s := catalog.NewState()
		assert.ErrorIs(t, catalog.JumpTo(s, 3), engine.ErrJumpNotAllowed)
		assert.Equal(t, 1, s.CurrentStep)
	})

	t.Run("JumpToHiddenStepRefused", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "hasPriorExperience", false)
		catalog.Next(s)
		catalog.SetAnswer(s, "email", "jordan@example.com")
		catalog.Next(s)
		catalog.SetAnswer(s, "liquidCapital", float64(800))
		catalog.SetAnswer(s, "netWorth", float64(400))
		catalog.SetAnswer(s, "agreeTerms", true)
		assert.ErrorIs(t, catalog.Next(s), engine.ErrNoNextStep)

		// Step 4 is validated now, but step 3 has no visible fields.
		assert.ErrorIs(t, catalog.JumpTo(s, 3), engine.ErrJumpNotAllowed)
		assert.NoError(t, catalog.JumpTo(s, 2))
	})

	t.Run("AnswerChangeNormalizesCurrentStep", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "hasPriorExperience", true)
		catalog.Next(s)
		catalog.SetAnswer(s, "email", "jordan@example.com")
		catalog.SetAnswer(s, "experienceDetails", "Ran a bakery for a decade")
		catalog.Next(s)
		assert.Equal(t, 3, s.CurrentStep)

		// Flipping the gate while on step 3 hides the whole step; the
		// session moves to the nearest visible step after it.
		catalog.SetAnswer(s, "hasPriorExperience", false)
		assert.Equal(t, 4, s.CurrentStep)
		assert.NotContains(t, catalog.VisibleSteps(s.Answers), 3)
	})

	t.Run("InvalidAnswerStoredButBlocksNext", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "hasPriorExperience", false)
		res, err := catalog.SetAnswer(s, "fullName", "J")
		assert.NoError(t, err)
		assert.False(t, res.Valid())
		assert.Equal(t, "J", s.Answers["fullName"])

		var blocked *engine.ValidationBlockedError
		assert.ErrorAs(t, catalog.Next(s), &blocked)
	})

	t.Run("EmptyAnswerClearsStoredValue", func(t *testing.T) {
		s := catalog.NewState()
		catalog.SetAnswer(s, "fullName", "Jordan Smith")
		catalog.SetAnswer(s, "fullName", "")
		assert.NotContains(t, s.Answers, "fullName")
	})

	t.Run("UnknownFieldRefused", func(t *testing.T) {
		s := catalog.NewState()
		_, err := catalog.SetAnswer(s, "noSuchField", "x")
		assert.ErrorIs(t, err, engine.ErrFieldNotFound)
	})
}

func TestWizardProgress(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("RecomputedWhenStepsHide", func(t *testing.T) {
		s := catalog.NewState()
		for k, v := range validAnswers() {
			catalog.SetAnswer(s, k, v)
		}
		s.CurrentStep = 4
		// Three visible steps (3 is hidden), two of them behind us.
		assert.InDelta(t, 66.66, catalog.Progress(s), 0.1)

		catalog.SetAnswer(s, "hasPriorExperience", true)
		// Step 3 is back: four visible steps, three behind us.
		assert.InDelta(t, 75.0, catalog.Progress(s), 0.1)
	})

	t.Run("ZeroOnFirstStep", func(t *testing.T) {
		s := catalog.NewState()
		assert.Equal(t, float64(0), catalog.Progress(s))
	})

	t.Run("HundredWhenCompleted", func(t *testing.T) {
		s := catalog.NewState()
		s.Phase = engine.PhaseCompleted
		assert.Equal(t, float64(100), catalog.Progress(s))
	})
}

func TestWizardSubmitGate(t *testing.T) {
	catalog := loadIntake(t)

	completedState := func(t *testing.T) *engine.WizardState {
		t.Helper()
		s := catalog.NewState()
		for k, v := range validAnswers() {
			if _, err := catalog.SetAnswer(s, k, v); err != nil {
				t.Fatalf("answering %s: %v", k, err)
			}
		}
		s.CurrentStep = 4
		return s
	}

	t.Run("RefusedBeforeLastStep", func(t *testing.T) {
		s := completedState(t)
		s.CurrentStep = 2
		assert.ErrorIs(t, catalog.BeginSubmit(s), engine.ErrNotOnLastStep)
	})

	t.Run("RefusedWithInvalidField", func(t *testing.T) {
		s := completedState(t)
		s.Answers["email"] = "broken"
		var blocked *engine.ValidationBlockedError
		assert.ErrorAs(t, catalog.BeginSubmit(s), &blocked)
		assert.Contains(t, blocked.Errors, "email")
		assert.Equal(t, engine.PhaseEditing, s.Phase)
	})

	t.Run("SubmitLifecycle", func(t *testing.T) {
		s := completedState(t)
		assert.NoError(t, catalog.BeginSubmit(s))
		assert.Equal(t, engine.PhaseSubmitting, s.Phase)

		// No edits or transitions once submitting.
		_, err := catalog.SetAnswer(s, "fullName", "X")
		assert.ErrorIs(t, err, engine.ErrWizardClosed)
		assert.ErrorIs(t, catalog.Back(s), engine.ErrWizardClosed)

		s.CompleteSubmit()
		assert.Equal(t, engine.PhaseCompleted, s.Phase)
	})

	t.Run("FailedHandOffReturnsToEditing", func(t *testing.T) {
		s := completedState(t)
		assert.NoError(t, catalog.BeginSubmit(s))
		s.FailSubmit()
		assert.Equal(t, engine.PhaseEditing, s.Phase)
		assert.Equal(t, 4, s.CurrentStep)
	})
}

func TestWizardView(t *testing.T) {
	catalog := loadIntake(t)

	s := catalog.NewState()
	catalog.SetAnswer(s, "fullName", "Jordan Smith")
	catalog.SetAnswer(s, "hasPriorExperience", false)
	catalog.Next(s)

	view := catalog.View(s)
	assert.Equal(t, 2, view.CurrentStep)
	assert.Equal(t, "Contact", view.StepTitle)
	assert.Equal(t, 3, view.TotalSteps)
	assert.True(t, view.CanGoNext)
	assert.True(t, view.CanGoBack)
	assert.False(t, view.IsSubmitting)
	assert.True(t, view.ShowProgressBar)

	// experienceDetails is hidden, only email survives.
	assert.Len(t, view.VisibleFields, 1)
	assert.Equal(t, "email", view.VisibleFields[0].ID)
}

func TestRestoredState(t *testing.T) {
	catalog := loadIntake(t)

	t.Run("ResumesAtDraftPosition", func(t *testing.T) {
		draft := &models.SessionDraft{
			Answers:     models.AnswerSet{"fullName": "Jordan Smith", "hasPriorExperience": false, "email": "jordan@example.com"},
			CurrentStep: 4,
		}
		s := catalog.RestoredState(draft)
		assert.Equal(t, 4, s.CurrentStep)
		assert.Equal(t, 3, s.HighestValidated)
		assert.Equal(t, engine.PhaseEditing, s.Phase)
	})

	t.Run("NormalizesHiddenDraftStep", func(t *testing.T) {
		// Draft saved on step 3 but its answers hide that step now.
		draft := &models.SessionDraft{
			Answers:     models.AnswerSet{"hasPriorExperience": false},
			CurrentStep: 3,
		}
		s := catalog.RestoredState(draft)
		assert.Equal(t, 4, s.CurrentStep)
	})

	t.Run("DraftAnswersAreCloned", func(t *testing.T) {
		answers := models.AnswerSet{"fullName": "Jordan Smith"}
		s := catalog.RestoredState(&models.SessionDraft{Answers: answers, CurrentStep: 1})
		s.Answers["fullName"] = "Someone Else"
		assert.Equal(t, "Jordan Smith", answers["fullName"])
	})
}
