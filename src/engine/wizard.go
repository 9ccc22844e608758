package engine

import (
	"franchise-intake-api/src/models"
)

// Phase is the lifecycle phase of one wizard session. While editing,
// the concrete position is WizardState.CurrentStep.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseCompleted  Phase = "completed"
)

// WizardState is the whole mutable state of one session. It is a value
// owned by the caller's session context and passed into every engine
// call; the engine itself keeps no per-session state, so any number of
// sessions can share one catalog.
type WizardState struct {
	Answers          models.AnswerSet `json:"answers"`
	CurrentStep      int              `json:"currentStep"`
	HighestValidated int              `json:"highestValidated"`
	Phase            Phase            `json:"phase"`
}

// NewState starts a session on the first non-empty step.
func (c *Catalog) NewState() *WizardState {
	s := &WizardState{
		Answers: make(models.AnswerSet),
		Phase:   PhaseEditing,
	}
	s.CurrentStep = c.firstVisibleStep(s.Answers)
	return s
}

// RestoredState rebuilds session state from a draft snapshot.
func (c *Catalog) RestoredState(draft *models.SessionDraft) *WizardState {
	s := &WizardState{
		Answers:     draft.Answers.Clone(),
		CurrentStep: draft.CurrentStep,
		Phase:       PhaseEditing,
	}
	if s.Answers == nil {
		s.Answers = make(models.AnswerSet)
	}
	// Steps before the draft's position were validated in the original
	// session, otherwise it could not have advanced there.
	s.HighestValidated = draft.CurrentStep - 1
	c.normalizeStep(s)
	return s
}

// VisibleSteps lists the steps that still contain at least one visible
// field; answers can shrink or grow this set at any time.
func (c *Catalog) VisibleSteps(answers models.AnswerSet) []int {
	var out []int
	for _, step := range c.steps {
		if len(c.VisibleFields(step.StepNumber, answers)) > 0 {
			out = append(out, step.StepNumber)
		}
	}
	return out
}

func (c *Catalog) firstVisibleStep(answers models.AnswerSet) int {
	vs := c.VisibleSteps(answers)
	if len(vs) == 0 {
		return 1
	}
	return vs[0]
}

// normalizeStep keeps CurrentStep on a non-empty step after answers
// change: the nearest visible step at or after the current one, else
// the nearest one before it.
func (c *Catalog) normalizeStep(s *WizardState) {
	vs := c.VisibleSteps(s.Answers)
	if len(vs) == 0 {
		return
	}
	for _, n := range vs {
		if n >= s.CurrentStep {
			s.CurrentStep = n
			return
		}
	}
	s.CurrentStep = vs[len(vs)-1]
}

// SetAnswer records a user input event: validates the candidate value,
// stores it, and recomputes the visible step set (the answer may have
// hidden the current step entirely). Invalid values are stored too —
// they are in-progress input — but block Next until fixed.
func (c *Catalog) SetAnswer(s *WizardState, fieldID string, value interface{}) (Result, error) {
	if s.Phase != PhaseEditing {
		return Result{}, ErrWizardClosed
	}
	if !c.Has(fieldID) {
		return Result{}, ErrFieldNotFound
	}
	res := c.Validate(fieldID, value, s.Answers)
	if isEmpty(value) {
		delete(s.Answers, fieldID)
	} else {
		s.Answers[fieldID] = value
	}
	c.normalizeStep(s)
	return res, nil
}

// Next advances to the next non-empty step, skipping steps whose fields
// are all hidden. It fails with a *ValidationBlockedError while any
// visible field of the current step is invalid.
func (c *Catalog) Next(s *WizardState) error {
	if s.Phase != PhaseEditing {
		return ErrWizardClosed
	}
	if failures := c.ValidateStep(s.CurrentStep, s.Answers); len(failures) > 0 {
		return &ValidationBlockedError{Step: s.CurrentStep, Errors: failures}
	}
	if s.CurrentStep > s.HighestValidated {
		s.HighestValidated = s.CurrentStep
	}
	for _, n := range c.VisibleSteps(s.Answers) {
		if n > s.CurrentStep {
			s.CurrentStep = n
			return nil
		}
	}
	return ErrNoNextStep
}

// Back moves to the previous non-empty step. Always allowed while the
// session is still editing.
func (c *Catalog) Back(s *WizardState) error {
	if s.Phase != PhaseEditing {
		return ErrWizardClosed
	}
	vs := c.VisibleSteps(s.Answers)
	prev := 0
	for _, n := range vs {
		if n >= s.CurrentStep {
			break
		}
		prev = n
	}
	if prev == 0 {
		return ErrNoPreviousStep
	}
	s.CurrentStep = prev
	return nil
}

// JumpTo moves directly to an already-validated step. Jumping ahead of
// the highest successfully validated step is not allowed.
func (c *Catalog) JumpTo(s *WizardState, stepNumber int) error {
	if s.Phase != PhaseEditing {
		return ErrWizardClosed
	}
	if stepNumber > s.HighestValidated && stepNumber != s.CurrentStep {
		return ErrJumpNotAllowed
	}
	for _, n := range c.VisibleSteps(s.Answers) {
		if n == stepNumber {
			s.CurrentStep = n
			return nil
		}
	}
	return ErrJumpNotAllowed
}

// BeginSubmit gates submission: only from the last non-empty step, with
// every visible field across all steps valid. On success the state
// moves to Submitting; the caller performs the persistence hand-off and
// then calls CompleteSubmit or FailSubmit.
func (c *Catalog) BeginSubmit(s *WizardState) error {
	if s.Phase != PhaseEditing {
		return ErrWizardClosed
	}
	vs := c.VisibleSteps(s.Answers)
	if len(vs) == 0 || s.CurrentStep != vs[len(vs)-1] {
		return ErrNotOnLastStep
	}
	if failures := c.ValidateAll(s.Answers); len(failures) > 0 {
		return &ValidationBlockedError{Step: s.CurrentStep, Errors: failures}
	}
	if s.CurrentStep > s.HighestValidated {
		s.HighestValidated = s.CurrentStep
	}
	s.Phase = PhaseSubmitting
	return nil
}

// CompleteSubmit finishes a successful hand-off.
func (s *WizardState) CompleteSubmit() {
	if s.Phase == PhaseSubmitting {
		s.Phase = PhaseCompleted
	}
}

// FailSubmit reverts a failed hand-off to the last step so the state
// machine is never stuck in Submitting.
func (s *WizardState) FailSubmit() {
	if s.Phase == PhaseSubmitting {
		s.Phase = PhaseEditing
	}
}

// Progress derives the completion percentage from the visible step set;
// it is recomputed on demand because conditional answers can change the
// denominator at any time.
func (c *Catalog) Progress(s *WizardState) float64 {
	if s.Phase == PhaseCompleted {
		return 100
	}
	vs := c.VisibleSteps(s.Answers)
	if len(vs) == 0 {
		return 0
	}
	completed := 0
	for _, n := range vs {
		if n < s.CurrentStep {
			completed++
		}
	}
	return float64(completed) / float64(len(vs)) * 100
}

// CanGoNext reports whether a later non-empty step exists.
func (c *Catalog) CanGoNext(s *WizardState) bool {
	if s.Phase != PhaseEditing {
		return false
	}
	for _, n := range c.VisibleSteps(s.Answers) {
		if n > s.CurrentStep {
			return true
		}
	}
	return false
}

// CanGoBack reports whether an earlier non-empty step exists.
func (c *Catalog) CanGoBack(s *WizardState) bool {
	if s.Phase != PhaseEditing {
		return false
	}
	for _, n := range c.VisibleSteps(s.Answers) {
		if n < s.CurrentStep {
			return true
		}
	}
	return false
}

// View emits the read-only view model for one render tick. The session
// layer adds its own attributes (session id, draft warnings) on top.
func (c *Catalog) View(s *WizardState) models.WizardView {
	view := models.WizardView{
		CurrentStep:        s.CurrentStep,
		TotalSteps:         len(c.VisibleSteps(s.Answers)),
		Answers:            s.Answers,
		ProgressPercentage: c.Progress(s),
		ShowProgressBar:    c.settings.ShowProgressBar,
		CanGoNext:          c.CanGoNext(s),
		CanGoBack:          c.CanGoBack(s),
		IsSubmitting:       s.Phase == PhaseSubmitting,
		IsCompleted:        s.Phase == PhaseCompleted,
	}
	if step, ok := c.Step(s.CurrentStep); ok {
		view.StepTitle = step.Title
	}
	for _, f := range c.VisibleFields(s.CurrentStep, s.Answers) {
		view.VisibleFields = append(view.VisibleFields, *f)
	}
	return view
}
