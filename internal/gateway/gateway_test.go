package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/common/errors"
	"careerlens/internal/common/logger"
	"careerlens/internal/common/validation"
	"careerlens/internal/models"
	"careerlens/pkg/contracts"
)

type staticTokens string

func (s staticTokens) AccessToken(context.Context) (string, error) { return string(s), nil }

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg, err := contracts.Default()
	require.NoError(t, err)

	return New(Options{
		BaseURL:   srv.URL + "/api",
		Validator: validation.NewContractValidator(reg),
		Logger:    logger.NewTestLogger(t),
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestRecommendations_NormalizesRecords(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/recommendations/user-1", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, 200, `[
			{"internship":{"id":101,"company":"Acme","role":"Backend Intern","location":"Bangalore","work_type":"Remote",
			 "description":"Build APIs in Go","skills":["Go","SQL"],"salary":"₹15,000 /month","apply_url":"https://x/1","posted_at":"2024-05-01"},
			 "match_score":91.6,"matched_skills":["go","Docker"]},
			{"internship":{"id":"b2","company":null,"role":null},"match_score":null,"matched_skills":null}
		]`)
	})

	records, err := g.Recommendations(context.Background(), "user-1", 50)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.ID("101"), records[0].ID)
	assert.Equal(t, models.WorkTypeRemote, records[0].WorkType)
	assert.Equal(t, 92, records[0].MatchScore)
	assert.Equal(t, []string{"Go"}, records[0].MatchedSkills)

	assert.Equal(t, models.PlaceholderCompany, records[1].Company)
	assert.Equal(t, models.PlaceholderRole, records[1].Role)
	assert.Equal(t, models.PlaceholderSalary, records[1].Salary)
}

func TestCall_RemoteStatusCarriesDetail(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, `{"detail":"Invalid status. Must be one of [...]"}`)
	})

	_, err := g.CreateApplication(context.Background(), "u", "i", "Bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRemoteStatus))
	assert.Contains(t, err.Error(), "Invalid status")
}

func TestCall_RemoteStatusWithoutDetail(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Bookmarks(context.Background(), "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error: 502")
	assert.True(t, errors.IsRetryable(err))
}

func TestCall_ContractViolation(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"unexpected":"object"}`)
	})

	_, err := g.Recommendations(context.Background(), "u", 10)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeContractViolation, errors.CodeOf(err))
}

func TestCall_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g := New(Options{BaseURL: base})
	_, err := g.Applications(context.Background(), "u")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNetworkFailure, errors.CodeOf(err))
}

func TestBookmarkOperations(t *testing.T) {
	var seen []string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost:
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "i 9", body["internship_id"])
			writeJSON(w, 200, `{"message":"Bookmarked","id":"bm-1"}`)
		case r.Method == http.MethodDelete:
			writeJSON(w, 200, `{"message":"Bookmark removed"}`)
		case strings.Contains(r.URL.Path, "/check/"):
			writeJSON(w, 200, `{"bookmarked":true}`)
		default:
			writeJSON(w, 200, `[{"id":"bm-1","internship_id":"i 9","created_at":"2024-05-01T00:00:00Z","internships":{"id":"i 9","company":"Acme"}}]`)
		}
	})
	ctx := context.Background()

	require.NoError(t, g.AddBookmark(ctx, "u", "i 9"))
	require.NoError(t, g.RemoveBookmark(ctx, "u", "i 9"))

	ok, err := g.IsBookmarked(ctx, "u", "i 9")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := g.Bookmarks(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ID("i 9"), list[0].InternshipID)

	assert.Equal(t, []string{
		"POST /api/bookmarks/u",
		"DELETE /api/bookmarks/u/i 9",
		"GET /api/bookmarks/u/check/i 9",
		"GET /api/bookmarks/u",
	}, seen)
}

func TestApplicationOperations(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			var body models.ApplicationCreate
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, models.StatusApplied, body.Status)
			writeJSON(w, 200, `{"message":"Application tracked","id":5,"status":"Applied"}`)
		case r.Method == http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"notes":"call back friday"}`, string(raw))
			writeJSON(w, 200, `{"message":"Updated","application":{"id":5}}`)
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/api/applications/u/5", r.URL.Path)
			writeJSON(w, 200, `{"message":"Application removed"}`)
		case strings.HasSuffix(r.URL.Path, "/stats"):
			writeJSON(w, 200, `{"Applied":2,"Interview":1,"Offer":0,"Rejected":1,"Withdrawn":0,"total":4}`)
		default:
			assert.Equal(t, "Interview", r.URL.Query().Get("status"))
			writeJSON(w, 200, `[{"id":5,"internship_id":"i1","status":"Interview","notes":"","applied_at":"2024-05-01","updated_at":"2024-05-02","internships":null}]`)
		}
	})
	ctx := context.Background()

	created, err := g.CreateApplication(ctx, "u", "i1", "")
	require.NoError(t, err)
	assert.Equal(t, models.ID("5"), created.ID)

	notes := "call back friday"
	require.NoError(t, g.UpdateApplication(ctx, "u", "5", models.ApplicationUpdate{Notes: &notes}))
	assert.True(t, errors.Is(g.UpdateApplication(ctx, "u", "5", models.ApplicationUpdate{}), errors.ErrCodeValidationFailed))
	require.NoError(t, g.DeleteApplication(ctx, "u", "5"))

	apps, err := g.ApplicationsWithStatus(ctx, "u", models.StatusInterview)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusInterview, apps[0].Status)

	stats, err := g.ApplicationStats(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Counts[models.StatusApplied])
	assert.Equal(t, 0, stats.Counts[models.StatusOffer])
}

func TestScrape(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/internships/scrape", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"categories":["python"],"work_type":"Remote"}`, string(raw))
		writeJSON(w, 200, `{"message":"Scraping started","categories":["python"]}`)
	})

	resp, err := g.Scrape(context.Background(), models.ScrapeRequest{Categories: []string{"python"}, WorkType: "Remote"})
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, resp.Categories)
}

func TestUploadResume_Multipart(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resume/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "user-1", r.FormValue("user_id"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "resume.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4 fake", string(content))

		writeJSON(w, 200, `{"id":"r1","file_name":"resume.pdf","file_url":"","ats_score":78,"skills":["Go"],"created_at":"2024-05-01"}`)
	})
	g.tokens = staticTokens("tok")

	res, err := g.UploadResume(context.Background(), "user-1", "resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NotNil(t, res.ATSScore)
	assert.Equal(t, 78, *res.ATSScore)
	assert.Equal(t, []string{"Go"}, res.Skills)
}

func TestHeaders_NoTokenSendsNoAuthorization(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, `[]`)
	})
	g.tokens = staticTokens("")

	_, err := g.Bookmarks(context.Background(), "u")
	require.NoError(t, err)
}

func TestProfileOperations(t *testing.T) {
	var seen []string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"skills":["Go","SQL"]}`, string(raw))
			writeJSON(w, 200, `{"message":"Skills updated","skills":["Go","SQL"]}`)
		case r.Method == http.MethodPost:
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"internship_type":"Summer","work_mode":"Hybrid","preferred_location":"Pune","target_roles":[]}`, string(raw))
			writeJSON(w, 200, `{"id":"p-1","user_id":"u","internship_type":"Summer","work_mode":"Hybrid","preferred_location":"Pune","updated_at":"2024-06-01"}`)
		case strings.HasPrefix(r.URL.Path, "/api/preferences/"):
			writeJSON(w, 200, `{"id":null,"user_id":"u","internship_type":"","work_mode":"Remote","preferred_location":"","updated_at":null}`)
		default:
			writeJSON(w, 200, `{
				"user":{"id":"u","full_name":"Ada","email":"ada@example.com","created_at":"2024-01-01"},
				"latest_resume":{"id":"r1","file_name":"cv.pdf","skills":["Go","Docker"],"ats_score":81,"created_at":"2024-05-01"},
				"preferences":{"internship_type":"","work_mode":"Remote","preferred_location":"","target_roles":[],"updated_at":null},
				"stats":{"resumes_uploaded":2}}`)
		}
	})
	ctx := context.Background()

	profile, err := g.Profile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.User.FullName)
	assert.Equal(t, []string{"Go", "Docker"}, profile.Skills())
	assert.Equal(t, 2, profile.Stats.ResumesUploaded)

	skills, err := g.UpdateSkills(ctx, "u", []string{"Go", "SQL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, skills)

	prefs, err := g.Preferences(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, models.ID(""), prefs.ID)
	assert.Equal(t, "Remote", prefs.WorkMode)

	saved, err := g.SavePreferences(ctx, "u", models.PreferencesUpdate{InternshipType: "Summer", WorkMode: "Hybrid", PreferredLocation: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("p-1"), saved.ID)

	assert.Equal(t, []string{
		"GET /api/profile/u",
		"PUT /api/profile/u/skills",
		"GET /api/preferences/u",
		"POST /api/preferences/u",
	}, seen)
}

func TestProfile_NoResumeYet(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			writeJSON(w, 404, `{"detail":"No resume found. Upload a resume first."}`)
			return
		}
		writeJSON(w, 200, `{"user":{"id":"u","full_name":"","email":"","created_at":null},"latest_resume":null,
			"preferences":{"work_mode":"Remote"},"stats":{"resumes_uploaded":0}}`)
	})
	ctx := context.Background()

	profile, err := g.Profile(ctx, "u")
	require.NoError(t, err)
	assert.Nil(t, profile.LatestResume)
	assert.Empty(t, profile.Skills())

	_, err = g.UpdateSkills(ctx, "u", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRemoteStatus))
	assert.Contains(t, err.Error(), "No resume found")
}

func TestDashboard(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/u", r.URL.Path)
		writeJSON(w, 200, `{
			"skills_distribution":[{"skill":"Go","owned":true,"demand":3},{"skill":"docker","owned":false,"demand":2}],
			"application_funnel":{"Applied":2,"Interview":1,"Offer":0,"Rejected":0,"Withdrawn":1,"total":4},
			"match_overview":{},
			"recent_activity":[{"type":"bookmark","label":"Saved Go Intern at Acme","time":"2024-05-02"}],
			"top_companies":[{"company":"Acme","count":3}]}`)
	})

	d, err := g.Dashboard(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Funnel.Total)
	assert.Equal(t, 1, d.Funnel.Counts[models.StatusWithdrawn])
	assert.Zero(t, d.MatchOverview.TotalInternships)
	require.Len(t, d.SkillsDistribution, 2)
	assert.False(t, d.SkillsDistribution[1].Owned)
	assert.Equal(t, "Acme", d.TopCompanies[0].Company)
}

func TestAnalyzeSkillGap(t *testing.T) {
	const result = `{"match_score":50,"jd_skills":["go","sql"],"resume_skills":["go"],"matched_skills":["go"],
		"missing_skills":["sql"],"extra_skills":[],"total_jd_skills":2,"total_resume_skills":1,"total_matched":1,
		"total_missing":1,"recommendations":["Decent match."]}`

	tests := []struct {
		name    string
		req     models.SkillGapRequest
		check   func(t *testing.T, r *http.Request)
		wantErr errors.ErrorCode
	}{
		{
			name: "resume as text",
			req:  models.SkillGapRequest{JobDescription: "Go and SQL", ResumeText: "  I write Go  "},
			check: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "Go and SQL", r.FormValue("job_description"))
				assert.Equal(t, "I write Go", r.FormValue("resume_text"))
				_, _, err := r.FormFile("resume_file")
				assert.Error(t, err)
			},
		},
		{
			name: "resume as file",
			req:  models.SkillGapRequest{JobDescription: "Go and SQL", ResumeText: "ignored", ResumeFileName: "cv.txt", ResumeFile: strings.NewReader("Go")},
			check: func(t *testing.T, r *http.Request) {
				f, hdr, err := r.FormFile("resume_file")
				if !assert.NoError(t, err) {
					return
				}
				defer f.Close()
				assert.Equal(t, "cv.txt", hdr.Filename)
				assert.Empty(t, r.FormValue("resume_text"))
			},
		},
		{name: "empty job description", req: models.SkillGapRequest{JobDescription: " ", ResumeText: "Go"}, wantErr: errors.ErrCodeValidationFailed},
		{name: "no resume", req: models.SkillGapRequest{JobDescription: "Go"}, wantErr: errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, "/api/skill-gap/analyze", r.URL.Path)
				assert.NoError(t, r.ParseMultipartForm(1<<20))
				tt.check(t, r)
				writeJSON(w, 200, result)
			})

			res, err := g.AnalyzeSkillGap(context.Background(), tt.req)
			if tt.wantErr != "" {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 50, res.MatchScore)
			assert.Equal(t, []string{"sql"}, res.MissingSkills)
		})
	}
}
