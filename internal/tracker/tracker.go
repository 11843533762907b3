// Package tracker keeps the user's application board: status changes, notes and removals are
// applied locally first and written to the API in the background.
package tracker

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/dispatch"
	"careerlens/internal/models"
)

// StatusAll disables the status filter.
const StatusAll = "All"

// ErrApplicationNotFound is returned for application ids the board does not hold.
var ErrApplicationNotFound = stderrors.New("application not found")

// Remote is the part of the API the tracker needs.
type Remote interface {
	Applications(ctx context.Context, userID string) ([]models.Application, error)
	UpdateApplication(ctx context.Context, userID string, appID models.ID, update models.ApplicationUpdate) error
	DeleteApplication(ctx context.Context, userID string, appID models.ID) error
}

type Tracker struct {
	remote   Remote
	logger   logger.Logger
	handler  *errors.Handler
	dispatch *dispatch.Dispatcher
	now      func() time.Time

	mu     sync.RWMutex
	userID string
	apps   []models.Application
}

func New(remote Remote, log logger.Logger) *Tracker {
	log = log.Named("tracker")
	return &Tracker{
		remote:   remote,
		logger:   log,
		handler:  errors.NewErrorHandler(log, nil),
		dispatch: dispatch.New(log),
		now:      time.Now,
	}
}

// Load fetches the user's applications. A failed read leaves the board empty.
func (t *Tracker) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewValidationError("user id is required")
	}

	apps, err := t.remote.Applications(ctx, userID)
	if err != nil {
		t.handler.Absorb("tracker.load", err, map[string]interface{}{"userId": userID})
		apps = nil
	}

	t.mu.Lock()
	t.userID = userID
	t.apps = apps
	t.mu.Unlock()
	return nil
}

// Applications returns a copy of the board in load order.
func (t *Tracker) Applications() []models.Application {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Application(nil), t.apps...)
}

// Filter returns the applications in status, or all of them for "All" or "".
func (t *Tracker) Filter(status string) ([]models.Application, error) {
	if status == "" || strings.EqualFold(status, StatusAll) {
		return t.Applications(), nil
	}
	st, err := models.ParseApplicationStatus(status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []models.Application
	for _, a := range t.apps {
		if a.Status == st {
			out = append(out, a)
		}
	}
	return out, nil
}

// Counts tallies the board per status. Every known status is present, even at zero.
func (t *Tracker) Counts() models.ApplicationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := models.ApplicationStats{Counts: make(map[models.ApplicationStatus]int, len(models.ApplicationStatuses))}
	for _, s := range models.ApplicationStatuses {
		stats.Counts[s] = 0
	}
	for _, a := range t.apps {
		stats.Counts[a.Status]++
	}
	stats.Total = len(t.apps)
	return stats
}

// UpdateStatus moves an application to status.
func (t *Tracker) UpdateStatus(ctx context.Context, appID models.ID, status models.ApplicationStatus) error {
	if _, err := models.ParseApplicationStatus(string(status)); err != nil {
		return errors.NewValidationError(err.Error())
	}

	userID, err := t.mutate(appID, func(a *models.Application) {
		a.Status = status
		a.UpdatedAt = t.now().UTC().Format(time.RFC3339)
	})
	if err != nil {
		return err
	}

	fields := map[string]interface{}{"userId": userID, "applicationId": appID, "status": status}
	t.dispatch.Go(ctx, "application.status", fields, func(ctx context.Context) error {
		return t.remote.UpdateApplication(ctx, userID, appID, models.ApplicationUpdate{Status: &status})
	})
	return nil
}

// SaveNotes replaces an application's notes.
func (t *Tracker) SaveNotes(ctx context.Context, appID models.ID, notes string) error {
	userID, err := t.mutate(appID, func(a *models.Application) {
		a.Notes = notes
	})
	if err != nil {
		return err
	}

	fields := map[string]interface{}{"userId": userID, "applicationId": appID}
	t.dispatch.Go(ctx, "application.notes", fields, func(ctx context.Context) error {
		return t.remote.UpdateApplication(ctx, userID, appID, models.ApplicationUpdate{Notes: &notes})
	})
	return nil
}

// Remove drops an application from the board.
func (t *Tracker) Remove(ctx context.Context, appID models.ID) error {
	t.mu.Lock()
	userID := t.userID
	if userID == "" {
		t.mu.Unlock()
		return errors.NewNotAuthenticatedError()
	}
	idx := t.indexOf(appID)
	if idx < 0 {
		t.mu.Unlock()
		return ErrApplicationNotFound
	}
	t.apps = append(t.apps[:idx:idx], t.apps[idx+1:]...)
	t.mu.Unlock()

	fields := map[string]interface{}{"userId": userID, "applicationId": appID}
	t.dispatch.Go(ctx, "application.delete", fields, func(ctx context.Context) error {
		return t.remote.DeleteApplication(ctx, userID, appID)
	})
	return nil
}

// Wait blocks until every background write started so far has finished.
func (t *Tracker) Wait() {
	t.dispatch.Wait()
}

func (t *Tracker) mutate(appID models.ID, fn func(*models.Application)) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userID == "" {
		return "", errors.NewNotAuthenticatedError()
	}
	idx := t.indexOf(appID)
	if idx < 0 {
		return "", ErrApplicationNotFound
	}
	fn(&t.apps[idx])
	return t.userID, nil
}

// indexOf expects t.mu held.
func (t *Tracker) indexOf(appID models.ID) int {
	for i := range t.apps {
		if t.apps[i].ID == appID {
			return i
		}
	}
	return -1
}
