// internal/gateway/gateway.go
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"careerlens/internal/common/errors"
	httpclient "careerlens/internal/common/http"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/metrics"
	"careerlens/internal/common/observability"
	"careerlens/internal/common/validation"
	"careerlens/internal/models"
	"careerlens/pkg/contracts"
)

// TokenSource supplies the bearer token sent with API calls. An empty token sends none.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport built from Timeout.
	HTTPClient *httpclient.Client
	// Validator checks every JSON body against its contract. Nil disables validation.
	Validator     *validation.ContractValidator
	Tokens        TokenSource
	Logger        logger.Logger
	Observability *observability.Observability
}

// Gateway is the typed client of the CareerLens REST API.
type Gateway struct {
	baseURL   string
	http      *httpclient.Client
	validator *validation.ContractValidator
	tokens    TokenSource
	logger    logger.Logger
	obs       *observability.Observability
}

func New(opts Options) *Gateway {
	h := opts.HTTPClient
	if h == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		h = httpclient.NewClient(timeout)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Gateway{
		baseURL:   opts.BaseURL,
		http:      h,
		validator: opts.Validator,
		tokens:    opts.Tokens,
		logger:    log.Named("gateway"),
		obs:       opts.Observability,
	}
}

// Recommendations fetches up to limit ranked matches and normalizes them.
func (g *Gateway) Recommendations(ctx context.Context, userID string, limit int) ([]models.RecommendationRecord, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var matches []models.Match
	if err := g.call(ctx, contracts.RecommendationsList, http.MethodGet, g.path(q, "recommendations", userID), nil, &matches); err != nil {
		return nil, err
	}

	records := make([]models.RecommendationRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, models.NewRecommendationRecord(m))
	}
	return records, nil
}

func (g *Gateway) Bookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var out []models.Bookmark
	if err := g.call(ctx, contracts.BookmarksList, http.MethodGet, g.path(nil, "bookmarks", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) AddBookmark(ctx context.Context, userID string, internshipID models.ID) error {
	var out models.BookmarkResponse
	body := models.BookmarkRequest{InternshipID: internshipID}
	return g.call(ctx, contracts.BookmarksAdd, http.MethodPost, g.path(nil, "bookmarks", userID), body, &out)
}

func (g *Gateway) RemoveBookmark(ctx context.Context, userID string, internshipID models.ID) error {
	return g.call(ctx, contracts.BookmarksRemove, http.MethodDelete, g.path(nil, "bookmarks", userID, internshipID.String()), nil, nil)
}

// IsBookmarked asks the API whether a single internship is saved.
func (g *Gateway) IsBookmarked(ctx context.Context, userID string, internshipID models.ID) (bool, error) {
	var out models.BookmarkCheck
	if err := g.call(ctx, contracts.BookmarksCheck, http.MethodGet, g.path(nil, "bookmarks", userID, "check", internshipID.String()), nil, &out); err != nil {
		return false, err
	}
	return out.Bookmarked, nil
}

func (g *Gateway) Applications(ctx context.Context, userID string) ([]models.Application, error) {
	return g.ApplicationsWithStatus(ctx, userID, "")
}

// ApplicationsWithStatus lists applications, narrowed server-side when status is set.
func (g *Gateway) ApplicationsWithStatus(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}

	var out []models.Application
	if err := g.call(ctx, contracts.ApplicationsList, http.MethodGet, g.path(q, "applications", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) CreateApplication(ctx context.Context, userID string, internshipID models.ID, status models.ApplicationStatus) (*models.ApplicationResponse, error) {
	if status == "" {
		status = models.StatusApplied
	}
	body := models.ApplicationCreate{InternshipID: internshipID, Status: status}

	var out models.ApplicationResponse
	if err := g.call(ctx, contracts.ApplicationsCreate, http.MethodPost, g.path(nil, "applications", userID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) UpdateApplication(ctx context.Context, userID string, appID models.ID, update models.ApplicationUpdate) error {
	if update.Status == nil && update.Notes == nil {
		return errors.NewValidationError("nothing to update")
	}
	return g.call(ctx, contracts.ApplicationsUpdate, http.MethodPut, g.path(nil, "applications", userID, appID.String()), update, nil)
}

func (g *Gateway) DeleteApplication(ctx context.Context, userID string, appID models.ID) error {
	return g.call(ctx, contracts.ApplicationsDelete, http.MethodDelete, g.path(nil, "applications", userID, appID.String()), nil, nil)
}

func (g *Gateway) ApplicationStats(ctx context.Context, userID string) (*models.ApplicationStats, error) {
	var raw map[string]int
	if err := g.call(ctx, contracts.ApplicationsStats, http.MethodGet, g.path(nil, "applications", userID, "stats"), nil, &raw); err != nil {
		return nil, err
	}

	stats := models.StatsFromCounts(raw)
	return &stats, nil
}

// Scrape asks the backend to refresh its listings. The scrape itself runs server-side.
func (g *Gateway) Scrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapeResponse, error) {
	var out models.ScrapeResponse
	if err := g.call(ctx, contracts.InternshipsScrape, http.MethodPost, g.path(nil, "internships", "scrape"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadResume posts the file as multipart form data with the user id alongside.
func (g *Gateway) UploadResume(ctx context.Context, userID, filename string, content io.Reader) (*models.ResumeUploadResult, error) {
	var out models.ResumeUploadResult
	file := &httpclient.MultipartFile{Field: "file", Filename: filename, Content: content}
	if err := g.multipart(ctx, contracts.ResumeUpload, g.path(nil, "resume", "upload"), map[string]string{"user_id": userID}, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the aggregated profile: account, latest resume, preferences and counters.
func (g *Gateway) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var out models.Profile
	if err := g.call(ctx, contracts.ProfileGet, http.MethodGet, g.path(nil, "profile", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSkills replaces the skills on the latest resume. The API answers 404 before any
// resume was uploaded.
func (g *Gateway) UpdateSkills(ctx context.Context, userID string, skills []string) ([]string, error) {
	if skills == nil {
		skills = []string{}
	}
	var out models.SkillsUpdateResponse
	if err := g.call(ctx, contracts.ProfileSkills, http.MethodPut, g.path(nil, "profile", userID, "skills"), models.SkillsUpdate{Skills: skills}, &out); err != nil {
		return nil, err
	}
	return out.Skills, nil
}

func (g *Gateway) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var out models.Preferences
	if err := g.call(ctx, contracts.PreferencesGet, http.MethodGet, g.path(nil, "preferences", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePreferences inserts or updates the user's preferences and returns the stored row.
func (g *Gateway) SavePreferences(ctx context.Context, userID string, prefs models.PreferencesUpdate) (*models.Preferences, error) {
	if prefs.TargetRoles == nil {
		prefs.TargetRoles = []string{}
	}
	var out models.Preferences
	if err := g.call(ctx, contracts.PreferencesSave, http.MethodPost, g.path(nil, "preferences", userID), prefs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	var out models.Dashboard
	if err := g.call(ctx, contracts.DashboardGet, http.MethodGet, g.path(nil, "dashboard", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeSkillGap compares a job description with a resume. The resume goes up as a file
// when req.ResumeFile is set, otherwise as text.
func (g *Gateway) AnalyzeSkillGap(ctx context.Context, req models.SkillGapRequest) (*models.SkillGapResult, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, errors.NewValidationError("job description cannot be empty")
	}

	fields := map[string]string{"job_description": req.JobDescription}
	var file *httpclient.MultipartFile
	switch {
	case req.ResumeFile != nil:
		file = &httpclient.MultipartFile{Field: "resume_file", Filename: req.ResumeFileName, Content: req.ResumeFile}
	case strings.TrimSpace(req.ResumeText) != "":
		fields["resume_text"] = strings.TrimSpace(req.ResumeText)
	default:
		return nil, errors.NewValidationError("provide either resume text or a resume file")
	}

	var out models.SkillGapResult
	if err := g.multipart(ctx, contracts.SkillGapAnalyze, g.path(nil, "skill-gap", "analyze"), fields, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) call(ctx context.Context, op, method, target string, body, out interface{}) error {
	start := time.Now()

	headers, err := g.headers(ctx)
	if err != nil {
		return err
	}

	resp, err := g.http.DoJSON(ctx, op, method, target, headers, body)
	return g.finish(ctx, op, method, start, resp, err, out)
}

func (g *Gateway) multipart(ctx context.Context, op, target string, fields map[string]string, file *httpclient.MultipartFile, out interface{}) error {
	start := time.Now()

	headers, err := g.headers(ctx)
	if err != nil {
		return err
	}

	resp, err := g.http.DoMultipart(ctx, op, target, headers, fields, file)
	return g.finish(ctx, op, http.MethodPost, start, resp, err, out)
}

// finish checks status, validates the contract, decodes into out and records the outcome.
func (g *Gateway) finish(ctx context.Context, op, method string, start time.Time, resp *httpclient.Response, err error, out interface{}) error {
	if err == nil {
		err = resp.Err(op)
	}
	if err == nil && g.validator != nil && len(resp.Body) > 0 {
		err = g.validator.Validate(op, resp.Body)
	}
	if err == nil && out != nil {
		if decodeErr := json.Unmarshal(resp.Body, out); decodeErr != nil {
			err = errors.NewDecodeFailedError(op, decodeErr)
		}
	}

	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = string(errors.CodeOf(err))
	}
	metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	g.obs.RecordCall(ctx, op, outcome, elapsed)

	fields := map[string]interface{}{
		"operation":  op,
		"method":     method,
		"outcome":    outcome,
		"durationMs": elapsed.Milliseconds(),
	}
	if resp != nil {
		fields["status"] = resp.StatusCode
		fields["requestId"] = resp.RequestID
	}
	g.logger.Debug("api call", fields)

	return err
}

func (g *Gateway) headers(ctx context.Context) (map[string]string, error) {
	if g.tokens == nil {
		return nil, nil
	}
	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

// path joins escaped segments onto the base URL.
func (g *Gateway) path(q url.Values, segments ...string) string {
	p := g.baseURL
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	if len(q) > 0 {
		p += "?" + q.Encode()
	}
	return p
}
