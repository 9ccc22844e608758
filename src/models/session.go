package models

import "time"

// AnswerSet maps field ids to the current raw answers for one session.
// Values stay untyped until validated/transformed.
type AnswerSet map[string]interface{}

// Clone returns a shallow copy so snapshots don't alias live session
// state.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// SessionDraft is the persisted, resumable snapshot of one in-progress
// session. Created on the first autosave tick, replaced on each
// subsequent tick, deleted on submission, abandon, or expiry.
type SessionDraft struct {
	SessionID   string    `bson:"sessionId" json:"sessionId"`
	Answers     AnswerSet `bson:"answers" json:"answers"`
	CurrentStep int       `bson:"currentStep" json:"currentStep"`
	LastSavedAt time.Time `bson:"lastSavedAt" json:"lastSavedAt"`
}

// StartSessionRequest starts a new wizard session, optionally resuming
// an earlier one by id.
type StartSessionRequest struct {
	ResumeSessionID string `json:"resumeSessionId,omitempty" validate:"omitempty,uuid4"`
}

// AnswerRequest carries one user input event for a single field.
type AnswerRequest struct {
	Value interface{} `json:"value"`
}

// FieldError is one validation failure surfaced for a field.
type FieldError struct {
	Rule    RuleKind `json:"rule"`
	Message string   `json:"message"`
}

// WizardView is the read-only view model emitted to the presentation
// layer after every session event.
type WizardView struct {
	SessionID          string                  `json:"sessionId"`
	CurrentStep        int                     `json:"currentStep"`
	StepTitle          string                  `json:"stepTitle,omitempty"`
	TotalSteps         int                     `json:"totalSteps"`
	VisibleFields      []FieldDefinition       `json:"visibleFields"`
	Answers            AnswerSet               `json:"answers"`
	FieldErrors        map[string][]FieldError `json:"fieldErrors,omitempty"`
	ProgressPercentage float64                 `json:"progressPercentage"`
	ShowProgressBar    bool                    `json:"showProgressBar"`
	CanGoNext          bool                    `json:"canGoNext"`
	CanGoBack          bool                    `json:"canGoBack"`
	IsSubmitting       bool                    `json:"isSubmitting"`
	IsCompleted        bool                    `json:"isCompleted"`
	DraftWarning       string                  `json:"draftWarning,omitempty"`
	ResumedFromDraft   bool                    `json:"resumedFromDraft,omitempty"`
}
