package listing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/models"
)

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.err
}

func loadedStore(t *testing.T, remote *MockRemote, saved []models.Bookmark, applied []models.Application) *Store {
	t.Helper()
	remote.On("Recommendations", mock.Anything, "u", 50).Return(sampleRecords(), nil)
	remote.On("Bookmarks", mock.Anything, "u").Return(saved, nil)
	remote.On("Applications", mock.Anything, "u").Return(applied, nil)

	s := NewStore(remote, 50, logger.NewTestLogger(t))
	require.NoError(t, s.Load(context.Background(), "u"))
	return s
}

func TestCoordinator_ToggleSavedAddsThenRemoves(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{}, []models.Application{})
	remote.On("AddBookmark", mock.Anything, "u", models.ID("1")).Return(nil).Once()
	remote.On("RemoveBookmark", mock.Anything, "u", models.ID("1")).Return(nil).Once()

	c := NewCoordinator(s, remote, nil, logger.NewTestLogger(t))
	before := s.Saved()

	saved, err := c.ToggleSaved(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, s.IsSaved("1"))
	c.Wait()

	saved, err = c.ToggleSaved(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, saved)
	c.Wait()

	assert.Equal(t, before, s.Saved())
	remote.AssertExpectations(t)
}

func TestCoordinator_ToggleSavedIsVisibleBeforeRemoteWrite(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{{InternshipID: "2"}}, []models.Application{})

	release := make(chan struct{})
	remote.On("RemoveBookmark", mock.Anything, "u", models.ID("2")).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	c := NewCoordinator(s, remote, nil, logger.NewTestLogger(t))
	saved, err := c.ToggleSaved(context.Background(), "2")
	require.NoError(t, err)

	assert.False(t, saved)
	assert.False(t, s.IsSaved("2"))
	assert.False(t, s.View(Criteria{Query: "globex"})[0].Saved)

	close(release)
	c.Wait()
}

func TestCoordinator_FailedWriteKeepsLocalState(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{}, []models.Application{})
	remote.On("AddBookmark", mock.Anything, "u", models.ID("3")).
		Return(errors.NewRemoteStatusError("bookmarks.add", 500, "db down"))
	remote.On("CreateApplication", mock.Anything, "u", models.ID("3"), models.StatusApplied).
		Return(nil, errors.NewRemoteStatusError("applications.create", 400, "duplicate"))

	c := NewCoordinator(s, remote, nil, logger.NewTestLogger(t))

	_, err := c.ToggleSaved(context.Background(), "3")
	require.NoError(t, err)
	require.NoError(t, c.MarkApplied(context.Background(), "3", ""))
	c.Wait()

	assert.True(t, s.IsSaved("3"))
	assert.True(t, s.IsApplied("3"))
	remote.AssertNumberOfCalls(t, "AddBookmark", 1)
	remote.AssertNumberOfCalls(t, "CreateApplication", 1)
}

func TestCoordinator_MarkAppliedIsIdempotentLocally(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{}, []models.Application{{InternshipID: "4"}})
	remote.On("CreateApplication", mock.Anything, "u", mock.Anything, models.StatusApplied).
		Return(&models.ApplicationResponse{Message: "Application tracked"}, nil)

	opener := &recordingOpener{}
	c := NewCoordinator(s, remote, opener, logger.NewTestLogger(t))

	require.NoError(t, c.MarkApplied(context.Background(), "1", "https://jobs.example.com/1"))
	once := s.Applied()
	require.NoError(t, c.MarkApplied(context.Background(), "1", "https://jobs.example.com/1"))
	c.Wait()

	assert.Equal(t, once, s.Applied())
	assert.Equal(t, []models.ID{"1", "4"}, s.Applied())
	assert.Equal(t, []string{"https://jobs.example.com/1", "https://jobs.example.com/1"}, opener.urls)
	remote.AssertNumberOfCalls(t, "CreateApplication", 2)
}

func TestCoordinator_MarkAppliedLinkHandling(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{}, []models.Application{})
	remote.On("CreateApplication", mock.Anything, "u", mock.Anything, models.StatusApplied).Return(&models.ApplicationResponse{}, nil)

	opener := &recordingOpener{err: assert.AnError}
	c := NewCoordinator(s, remote, opener, logger.NewTestLogger(t))

	require.NoError(t, c.MarkApplied(context.Background(), "1", ""))
	require.NoError(t, c.MarkApplied(context.Background(), "2", "javascript:alert(1)"))
	require.NoError(t, c.MarkApplied(context.Background(), "3", "https://jobs.example.com/3"))
	c.Wait()

	assert.Equal(t, []string{"https://jobs.example.com/3"}, opener.urls)
	assert.Equal(t, []models.ID{"1", "2", "3"}, s.Applied())
}

func TestCoordinator_RequiresLoadedUser(t *testing.T) {
	remote := new(MockRemote)
	s := NewStore(remote, 50, logger.NewTestLogger(t))
	c := NewCoordinator(s, remote, nil, logger.NewTestLogger(t))

	_, err := c.ToggleSaved(context.Background(), "1")
	assert.True(t, errors.Is(err, errors.ErrCodeNotAuthenticated))
	assert.True(t, errors.Is(c.MarkApplied(context.Background(), "1", ""), errors.ErrCodeNotAuthenticated))
	assert.Empty(t, s.Saved())
	assert.Empty(t, s.Applied())
}

func TestCoordinator_ConcurrentTogglesOnDifferentIDs(t *testing.T) {
	remote := new(MockRemote)
	s := loadedStore(t, remote, []models.Bookmark{}, []models.Application{})
	remote.On("AddBookmark", mock.Anything, "u", mock.Anything).Return(nil)

	c := NewCoordinator(s, remote, nil, logger.NewTestLogger(t))

	var wg sync.WaitGroup
	for _, id := range []models.ID{"1", "2", "3", "4"} {
		wg.Add(1)
		go func(id models.ID) {
			defer wg.Done()
			_, err := c.ToggleSaved(context.Background(), id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()
	c.Wait()

	assert.Equal(t, []models.ID{"1", "2", "3", "4"}, s.Saved())
	remote.AssertNumberOfCalls(t, "AddBookmark", 4)
}
