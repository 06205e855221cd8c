// Package sessions keeps one submission pipeline per onboarding session.
package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/submission"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
)

type Presenter interface {
	interfaces.Notifier
	interfaces.ErrorPresenter
}

type StoreFactory func(namespace string) interfaces.FlagStore

type PresenterFactory func(namespace string) Presenter

type Session struct {
	Namespace  string
	Store      interfaces.FlagStore
	Tracker    *steps.Tracker
	Submission *submission.Submission
	Inbox      *Inbox

	lastSeen time.Time
}

type Registry struct {
	stores     StoreFactory
	presenters PresenterFactory
	assigner   interfaces.PlanAssigner
	validator  interfaces.SchemaValidator
	rules      interfaces.PlanRules

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry(stores StoreFactory, presenters PresenterFactory, assigner interfaces.PlanAssigner,
	validator interfaces.SchemaValidator, rules interfaces.PlanRules) *Registry {
	return &Registry{
		stores:     stores,
		presenters: presenters,
		assigner:   assigner,
		validator:  validator,
		rules:      rules,
		sessions:   make(map[string]*Session),
		now:        time.Now,
	}
}

// Get returns the session for namespace, creating its pipeline on first use.
func (r *Registry) Get(namespace string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[namespace]; ok {
		s.lastSeen = r.now()
		return s
	}

	store := r.stores(namespace)
	tracker := steps.NewTracker(store)
	inbox := &Inbox{}
	presenter := tee{r.presenters(namespace), inbox}
	s := &Session{
		Namespace:  namespace,
		Store:      store,
		Tracker:    tracker,
		Inbox:      inbox,
		Submission: submission.NewSubmission(store, tracker, r.assigner, r.validator, r.rules, presenter, presenter),
		lastSeen:   r.now(),
	}
	r.sessions[namespace] = s
	return s
}

// Store opens the flag store of namespace without creating a pipeline.
func (r *Registry) Store(namespace string) interfaces.FlagStore {
	return r.stores(namespace)
}

// Prune drops pipelines idle for longer than idle unless a submission is in flight.
// Persisted flags are untouched.
func (r *Registry) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	pruned := 0
	for ns, s := range r.sessions {
		if s.lastSeen.After(cutoff) || s.Submission.Status().IsSubmitting {
			continue
		}
		delete(r.sessions, ns)
		pruned++
	}
	if pruned > 0 {
		slog.Debug("pruned idle sessions", "count", pruned)
	}
	return pruned
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
