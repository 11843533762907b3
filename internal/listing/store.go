// internal/listing/store.go
package listing

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/metrics"
	"careerlens/internal/models"
)

// Remote is the part of the API the listing core reads and writes.
type Remote interface {
	Recommendations(ctx context.Context, userID string, limit int) ([]models.RecommendationRecord, error)
	Bookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)
	Applications(ctx context.Context, userID string) ([]models.Application, error)
	AddBookmark(ctx context.Context, userID string, internshipID models.ID) error
	RemoveBookmark(ctx context.Context, userID string, internshipID models.ID) error
	CreateApplication(ctx context.Context, userID string, internshipID models.ID, status models.ApplicationStatus) (*models.ApplicationResponse, error)
	Scrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeResponse, error)
}

// ListingView is a record with its membership badges, ready to render.
type ListingView struct {
	models.RecommendationRecord
	Saved   bool `json:"saved"`
	Applied bool `json:"applied"`
}

// Store holds the fetched recommendations and the saved and applied sets for one user.
type Store struct {
	remote  Remote
	limit   int
	logger  logger.Logger
	handler *errors.Handler

	mu        sync.RWMutex
	userID    string
	records   []models.RecommendationRecord
	bookmarks map[models.ID]models.Summary
	saved     map[models.ID]struct{}
	applied   map[models.ID]struct{}
	loading   bool
	lastErr   error
}

// NewStore builds an empty store. limit bounds the recommendations fetch.
func NewStore(remote Remote, limit int, log logger.Logger) *Store {
	log = log.Named("listing")
	return &Store{
		remote:    remote,
		limit:     limit,
		logger:    log,
		handler:   errors.NewErrorHandler(log, nil),
		bookmarks: map[models.ID]models.Summary{},
		saved:     map[models.ID]struct{}{},
		applied:   map[models.ID]struct{}{},
	}
}

// Load fetches recommendations, saved items and applied items concurrently. A failed
// membership read leaves that set empty. A failed recommendations read leaves the list empty
// and is kept in LastError; Load itself only fails for an empty userID.
func (s *Store) Load(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewValidationError("user id is required")
	}

	s.mu.Lock()
	s.userID = userID
	s.loading = true
	s.mu.Unlock()

	var (
		records   []models.RecommendationRecord
		recErr    error
		bookmarks []models.Bookmark
		apps      []models.Application
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, recErr = s.remote.Recommendations(gctx, userID, s.limit)
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		var err error
		if bookmarks, err = s.remote.Bookmarks(gctx, userID); err != nil {
			s.handler.Absorb("listing.load.saved", err, map[string]interface{}{"userId": userID})
			bookmarks = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if apps, err = s.remote.Applications(gctx, userID); err != nil {
			s.handler.Absorb("listing.load.applied", err, map[string]interface{}{"userId": userID})
			apps = nil
		}
		return nil
	})
	_ = g.Wait() // every branch absorbs its own failure

	saved := make(map[models.ID]struct{}, len(bookmarks))
	summaries := make(map[models.ID]models.Summary, len(bookmarks))
	for _, b := range bookmarks {
		saved[b.InternshipID] = struct{}{}
		summary := models.Summarize(b.Internship)
		summary.ID = b.InternshipID
		summaries[b.InternshipID] = summary
	}
	applied := make(map[models.ID]struct{}, len(apps))
	for _, a := range apps {
		applied[a.InternshipID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved = saved
	s.applied = applied
	s.bookmarks = summaries
	s.lastErr = recErr
	if recErr != nil {
		s.records = nil
		metrics.StoreLoads.WithLabelValues("failed").Inc()
		s.handler.Absorb("listing.load.recommendations", recErr, map[string]interface{}{"userId": userID})
		return nil
	}

	s.records = records
	metrics.StoreLoads.WithLabelValues("ok").Inc()
	s.logger.Info("listings loaded", map[string]interface{}{
		"userId":  userID,
		"records": len(records),
		"saved":   len(saved),
		"applied": len(applied),
	})
	return nil
}

// Reload re-fetches everything for the current user.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx, s.UserID())
}

// Scrape asks the backend for fresh listings and reloads once it accepts. Unlike the
// membership writes, a failed scrape request is returned: the caller asked for it explicitly.
func (s *Store) Scrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeResponse, error) {
	resp, err := s.remote.Scrape(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.UserID() != "" {
		if err := s.Reload(ctx); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Loading reports whether the recommendations read is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError is the failure of the most recent recommendations read, if any.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Records returns a copy of the raw list.
func (s *Store) Records() []models.RecommendationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RecommendationRecord(nil), s.records...)
}

// Record looks up one loaded record.
func (s *Store) Record(id models.ID) (models.RecommendationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.RecommendationRecord{}, false
}

func (s *Store) IsSaved(id models.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.saved[id]
	return ok
}

func (s *Store) IsApplied(id models.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.applied[id]
	return ok
}

// Saved returns the saved ids in id order.
func (s *Store) Saved() []models.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.saved)
}

// Applied returns the applied ids in id order.
func (s *Store) Applied() []models.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.applied)
}

// SavedItems describes every saved id, from the loaded list when present and from the
// saved-items read otherwise.
func (s *Store) SavedItems() []models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[models.ID]models.RecommendationRecord, len(s.records))
	for _, r := range s.records {
		byID[r.ID] = r
	}

	ids := sortedIDs(s.saved)
	out := make([]models.Summary, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, models.Summary{ID: id, Company: r.Company, Role: r.Role, Location: r.Location, ApplyURL: r.ApplyURL})
			continue
		}
		if b, ok := s.bookmarks[id]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, models.Summary{ID: id, Company: models.PlaceholderCompany, Role: models.PlaceholderRole, Location: models.PlaceholderLocation})
	}
	return out
}

// View filters and sorts the raw list and attaches membership badges.
func (s *Store) View(c Criteria) []ListingView {
	s.mu.RLock()
	records := s.records
	saved, applied := s.saved, s.applied
	out := make([]ListingView, 0, len(records))
	for _, r := range Apply(records, c) {
		_, isSaved := saved[r.ID]
		_, isApplied := applied[r.ID]
		out = append(out, ListingView{RecommendationRecord: r, Saved: isSaved, Applied: isApplied})
	}
	s.mu.RUnlock()
	return out
}

// toggleSaved flips membership under the lock and returns the new state.
func (s *Store) toggleSaved(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[id]; ok {
		delete(s.saved, id)
		return false
	}
	s.saved[id] = struct{}{}
	return true
}

func (s *Store) addApplied(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied[id] = struct{}{}
}

func sortedIDs(set map[models.ID]struct{}) []models.ID {
	out := make([]models.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i], out[j]) })
	return out
}

// idLess orders numeric ids by value and everything else by string. Numeric ids sort
// before non-numeric ones.
func idLess(a, b models.ID) bool {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
