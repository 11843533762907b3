package listing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"careerlens/internal/models"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Recommendations(ctx context.Context, userID string, limit int) ([]models.RecommendationRecord, error) {
	args := m.Called(ctx, userID, limit)
	records, _ := args.Get(0).([]models.RecommendationRecord)
	return records, args.Error(1)
}

func (m *MockRemote) Bookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	args := m.Called(ctx, userID)
	bookmarks, _ := args.Get(0).([]models.Bookmark)
	return bookmarks, args.Error(1)
}

func (m *MockRemote) Applications(ctx context.Context, userID string) ([]models.Application, error) {
	args := m.Called(ctx, userID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *MockRemote) AddBookmark(ctx context.Context, userID string, internshipID models.ID) error {
	return m.Called(ctx, userID, internshipID).Error(0)
}

func (m *MockRemote) RemoveBookmark(ctx context.Context, userID string, internshipID models.ID) error {
	return m.Called(ctx, userID, internshipID).Error(0)
}

func (m *MockRemote) CreateApplication(ctx context.Context, userID string, internshipID models.ID, status models.ApplicationStatus) (*models.ApplicationResponse, error) {
	args := m.Called(ctx, userID, internshipID, status)
	resp, _ := args.Get(0).(*models.ApplicationResponse)
	return resp, args.Error(1)
}

func (m *MockRemote) Scrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.ScrapeResponse)
	return resp, args.Error(1)
}
