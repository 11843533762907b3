// internal/listing/coordinator.go
package listing

import (
	"context"

	"github.com/pkg/browser"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/validation"
	"careerlens/internal/dispatch"
	"careerlens/internal/models"
)

// Opener shows an apply link to the user.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener opens links in the system browser.
var BrowserOpener Opener = OpenerFunc(browser.OpenURL)

// Coordinator turns save and apply actions into an immediate local change plus a background
// remote write. Failed writes are logged and counted; local state is never rolled back.
type Coordinator struct {
	store    *Store
	remote   Remote
	opener   Opener
	dispatch *dispatch.Dispatcher
	logger   logger.Logger
}

// NewCoordinator wires a coordinator onto store. A nil opener discards apply links.
func NewCoordinator(store *Store, remote Remote, opener Opener, log logger.Logger) *Coordinator {
	if opener == nil {
		opener = OpenerFunc(func(string) error { return nil })
	}
	log = log.Named("mutations")
	return &Coordinator{
		store:    store,
		remote:   remote,
		opener:   opener,
		dispatch: dispatch.New(log),
		logger:   log,
	}
}

// ToggleSaved flips the saved state of id and returns the new state. The matching bookmark
// write runs in the background.
func (c *Coordinator) ToggleSaved(ctx context.Context, id models.ID) (bool, error) {
	userID := c.store.UserID()
	if userID == "" {
		return false, errors.NewNotAuthenticatedError()
	}

	saved := c.store.toggleSaved(id)
	fields := map[string]interface{}{"userId": userID, "internshipId": id, "saved": saved}

	if saved {
		c.dispatch.Go(ctx, "bookmark.add", fields, func(ctx context.Context) error {
			return c.remote.AddBookmark(ctx, userID, id)
		})
	} else {
		c.dispatch.Go(ctx, "bookmark.remove", fields, func(ctx context.Context) error {
			return c.remote.RemoveBookmark(ctx, userID, id)
		})
	}
	return saved, nil
}

// MarkApplied adds id to the applied set, opens applyURL when it is a web link and records
// the application remotely in the background. Calling it again for the same id is harmless
// locally and issues another create.
func (c *Coordinator) MarkApplied(ctx context.Context, id models.ID, applyURL string) error {
	userID := c.store.UserID()
	if userID == "" {
		return errors.NewNotAuthenticatedError()
	}

	c.store.addApplied(id)

	if applyURL != "" {
		if validation.ValidateURL(applyURL) {
			if err := c.opener.Open(applyURL); err != nil {
				c.logger.Warn("could not open apply link", map[string]interface{}{"url": applyURL, "error": err.Error()})
			}
		} else {
			c.logger.Warn("apply link is not a web address", map[string]interface{}{"url": applyURL})
		}
	}

	fields := map[string]interface{}{"userId": userID, "internshipId": id}
	c.dispatch.Go(ctx, "application.create", fields, func(ctx context.Context) error {
		_, err := c.remote.CreateApplication(ctx, userID, id, models.StatusApplied)
		return err
	})
	return nil
}

// Wait blocks until every background write started so far has finished.
func (c *Coordinator) Wait() {
	c.dispatch.Wait()
}
