package sessions

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"franchise-intake-api/src/engine"
	"franchise-intake-api/src/models"
	"franchise-intake-api/src/services/drafts"
	"franchise-intake-api/src/services/forms"
	"franchise-intake-api/src/services/submissions"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Session owns the whole state of one applicant's wizard. Events for
// one session serialize on its mutex; different sessions never share
// mutable state, only the read-only catalog.
//
// Lock order: regMu is never held while taking s.mu, and s.mu is never
// held while taking regMu. Registry mutations happen outside session
// locks.
type Session struct {
	mu sync.Mutex

	ID               string
	Catalog          *engine.Catalog
	State            *engine.WizardState
	LastErrors       map[string][]engine.FailureReason
	DraftWarning     string
	ResumedFromDraft bool
	LastActivity     time.Time
}

var (
	regMu    sync.Mutex
	registry = make(map[string]*Session)

	// Shared draft store. Debounce intervals and TTLs are taken from
	// each session's catalog at call time, so a republished form's
	// autosave settings apply to new sessions immediately.
	store = drafts.NewStore(drafts.RedisPersistence{})
)

// Start opens a wizard session against the active form. When resuming,
// a fresh draft restores the previous answers and position; an expired
// or missing draft silently starts over.
func Start(ctx context.Context, resumeID string) (models.WizardView, error) {
	catalog, err := forms.ActiveCatalog(ctx)
	if err != nil {
		return models.WizardView{}, err
	}

	s := &Session{
		ID:           uuid.NewString(),
		Catalog:      catalog,
		State:        catalog.NewState(),
		LastErrors:   make(map[string][]engine.FailureReason),
		LastActivity: time.Now(),
	}

	if resumeID != "" && catalog.Settings().AllowSaveDraft {
		draft, err := store.Restore(ctx, resumeID, catalog.Settings().SessionTimeout())
		if err != nil {
			log.Println("⚠️ Draft restore failed:", err)
		} else if draft != nil {
			s.ID = resumeID
			s.State = catalog.RestoredState(draft)
			s.ResumedFromDraft = true
		}
	}

	regMu.Lock()
	registry[s.ID] = s
	regMu.Unlock()

	return s.view(), nil
}

func lookup(sessionID string) (*Session, error) {
	regMu.Lock()
	defer regMu.Unlock()
	s, ok := registry[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func unregister(sessionID string) {
	regMu.Lock()
	delete(registry, sessionID)
	regMu.Unlock()
}

// view builds the render-tick view model. Callers hold s.mu.
func (s *Session) view() models.WizardView {
	v := s.Catalog.View(s.State)
	v.SessionID = s.ID
	v.DraftWarning = s.DraftWarning
	v.ResumedFromDraft = s.ResumedFromDraft
	if len(s.LastErrors) > 0 {
		v.FieldErrors = make(map[string][]models.FieldError, len(s.LastErrors))
		for id, reasons := range s.LastErrors {
			for _, r := range reasons {
				v.FieldErrors[id] = append(v.FieldErrors[id], models.FieldError{Rule: r.Rule, Message: r.Message})
			}
		}
	}
	return v
}

// GetView returns the current view model without mutating anything.
func GetView(sessionID string) (models.WizardView, error) {
	s, err := lookup(sessionID)
	if err != nil {
		return models.WizardView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Answer applies one input event: field validation, visibility
// recomputation, and a debounced autosave. The event runs to completion
// under the session lock before the next one starts.
func Answer(ctx context.Context, sessionID, fieldID string, value interface{}) (models.WizardView, error) {
	s, err := lookup(sessionID)
	if err != nil {
		return models.WizardView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Catalog.SetAnswer(s.State, fieldID, value)
	if err != nil {
		return s.view(), err
	}
	if res.Valid() {
		delete(s.LastErrors, fieldID)
	} else {
		s.LastErrors[fieldID] = res.Failures
	}
	s.LastActivity = time.Now()
	s.scheduleAutosave()
	return s.view(), nil
}

// scheduleAutosave arms the debounce timer when drafts are enabled.
// Callers hold s.mu.
func (s *Session) scheduleAutosave() {
	settings := s.Catalog.Settings()
	if !settings.AllowSaveDraft || !settings.AutoSaveEnabled() {
		return
	}
	store.ScheduleSave(s.ID, settings.AutoSaveInterval(), settings.SessionTimeout(), s.snapshot, s.onSaveResult)
}

// snapshot captures the answers at save time, not at edit time. A
// session that already left the editing phase returns nil so a timer
// firing after submit or abandon cannot write the draft back.
func (s *Session) snapshot() *models.SessionDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State.Phase != engine.PhaseEditing {
		return nil
	}
	return &models.SessionDraft{
		SessionID:   s.ID,
		Answers:     s.State.Answers.Clone(),
		CurrentStep: s.State.CurrentStep,
	}
}

func (s *Session) onSaveResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.DraftWarning = "Your progress could not be saved. You can keep going, but a reload may lose recent answers."
		return
	}
	s.DraftWarning = ""
}

// Next advances the wizard. A *engine.ValidationBlockedError carries
// the per-field failures and leaves the step unchanged.
func Next(sessionID string) (models.WizardView, error) {
	return transition(sessionID, func(s *Session) error {
		return s.Catalog.Next(s.State)
	})
}

// Back moves to the previous non-empty step.
func Back(sessionID string) (models.WizardView, error) {
	return transition(sessionID, func(s *Session) error {
		return s.Catalog.Back(s.State)
	})
}

// JumpTo moves directly to an already-validated step.
func JumpTo(sessionID string, stepNumber int) (models.WizardView, error) {
	return transition(sessionID, func(s *Session) error {
		return s.Catalog.JumpTo(s.State, stepNumber)
	})
}

func transition(sessionID string, fn func(*Session) error) (models.WizardView, error) {
	s, err := lookup(sessionID)
	if err != nil {
		return models.WizardView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err = fn(s)
	var blocked *engine.ValidationBlockedError
	if errors.As(err, &blocked) {
		s.LastErrors = blocked.Errors
	} else if err == nil {
		s.LastErrors = make(map[string][]engine.FailureReason)
	}
	s.LastActivity = time.Now()
	return s.view(), err
}

// Submit runs the full gate, transforms the answers, and awaits the
// persistence hand-off. A persistence failure reverts the session to
// the last step instead of leaving it stuck in Submitting; the stored
// draft is only discarded after the record is safely persisted. The
// registry entry is removed after the session lock is released.
func Submit(ctx context.Context, sessionID string) (models.WizardView, string, error) {
	s, err := lookup(sessionID)
	if err != nil {
		return models.WizardView{}, "", err
	}

	view, confirmationID, err := s.submit(ctx)
	if err != nil {
		return view, "", err
	}
	unregister(s.ID)
	return view, confirmationID, nil
}

func (s *Session) submit(ctx context.Context) (models.WizardView, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Catalog.BeginSubmit(s.State); err != nil {
		var blocked *engine.ValidationBlockedError
		if errors.As(err, &blocked) {
			s.LastErrors = blocked.Errors
		}
		return s.view(), "", err
	}

	record, err := s.Catalog.Transform(s.State.Answers, s.ID)
	if err != nil {
		// Internal consistency failure: fatal for this attempt, never
		// submit partial data.
		s.State.FailSubmit()
		log.Println("❌ Submission transform failed:", err)
		return s.view(), "", err
	}

	confirmationID, err := submissions.Create(ctx, record)
	if err != nil {
		s.State.FailSubmit()
		return s.view(), "", err
	}

	if s.Catalog.Settings().AllowSaveDraft {
		if err := store.Discard(ctx, s.ID); err != nil {
			log.Println("⚠️ Failed to discard draft after submit:", err)
		}
	}
	s.State.CompleteSubmit()
	return s.view(), confirmationID, nil
}

// Suspend saves the draft immediately and drops the in-memory session,
// for an explicit "save and exit". The returned view carries the
// session ID the applicant resumes with. With drafts disabled it only
// drops the session.
func Suspend(ctx context.Context, sessionID string) (models.WizardView, error) {
	s, err := lookup(sessionID)
	if err != nil {
		return models.WizardView{}, err
	}

	s.mu.Lock()
	settings := s.Catalog.Settings()
	var draft *models.SessionDraft
	if settings.AllowSaveDraft && s.State.Phase == engine.PhaseEditing {
		draft = &models.SessionDraft{
			SessionID:   s.ID,
			Answers:     s.State.Answers.Clone(),
			CurrentStep: s.State.CurrentStep,
		}
	}
	view := s.view()
	s.mu.Unlock()

	if draft != nil {
		if err := store.SaveNow(ctx, draft, settings.SessionTimeout()); err != nil {
			return view, err
		}
	}
	unregister(s.ID)
	return view, nil
}

// Abandon drops the session and its stored draft.
func Abandon(ctx context.Context, sessionID string) error {
	s, err := lookup(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	allowDraft := s.Catalog.Settings().AllowSaveDraft
	s.mu.Unlock()

	if allowDraft {
		if err := store.Discard(ctx, s.ID); err != nil {
			log.Println("⚠️ Failed to discard draft on abandon:", err)
		}
	}
	unregister(s.ID)
	return nil
}

// EvictIdle drops in-memory sessions idle past their form's configured
// session timeout. Their drafts stay in Redis until the TTL runs out,
// so a reload can still resume them. The registry lock is released
// before any session lock is taken, so a slow in-flight event never
// stalls lookups for other sessions.
func EvictIdle() int {
	regMu.Lock()
	candidates := make([]*Session, 0, len(registry))
	for _, s := range registry {
		candidates = append(candidates, s)
	}
	regMu.Unlock()

	var expired []string
	for _, s := range candidates {
		s.mu.Lock()
		idle := time.Since(s.LastActivity)
		timeout := s.Catalog.Settings().SessionTimeout()
		s.mu.Unlock()
		if idle > timeout {
			expired = append(expired, s.ID)
		}
	}

	evicted := 0
	regMu.Lock()
	for _, id := range expired {
		if _, ok := registry[id]; ok {
			delete(registry, id)
			evicted++
		}
	}
	regMu.Unlock()
	return evicted
}

// StartJanitor evicts idle sessions in the background.
func StartJanitor(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := EvictIdle(); n > 0 {
					log.Printf("🧹 Evicted %d idle session(s)", n)
				}
			}
		}
	}()
}
