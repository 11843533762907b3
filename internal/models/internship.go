// internal/models/internship.go
package models

import "strings"

// WorkType is the listing's work arrangement.
type WorkType string

const (
	WorkTypeRemote   WorkType = "Remote"
	WorkTypeOnSite   WorkType = "On-site"
	WorkTypeInOffice WorkType = "In-office"
	WorkTypeHybrid   WorkType = "Hybrid"
	WorkTypeUnknown  WorkType = "Unknown"
)

// Placeholders shown when the API omits a field.
const (
	PlaceholderCompany  = "Unknown Company"
	PlaceholderRole     = "Unknown Role"
	PlaceholderLocation = "Location not specified"
	PlaceholderSalary   = "Not disclosed"
)

// Internship is the listing as the API returns it. Every field but ID may be null.
type Internship struct {
	ID          ID       `json:"id"`
	Company     *string  `json:"company"`
	Role        *string  `json:"role"`
	Location    *string  `json:"location"`
	WorkType    *string  `json:"work_type"`
	Description *string  `json:"description"`
	Skills      []string `json:"skills"`
	Salary      *string  `json:"salary"`
	ApplyURL    *string  `json:"apply_url"`
	Source      *string  `json:"source"`
	PostedAt    *string  `json:"posted_at"`
}

// Match is one element of the recommendations response.
type Match struct {
	Internship    Internship `json:"internship"`
	MatchScore    *float64   `json:"match_score"`
	MatchedSkills []string   `json:"matched_skills"`
}

// RecommendationRecord is a normalized listing. Fields are never empty where a placeholder
// exists, and MatchedSkills is always a subset of Skills.
type RecommendationRecord struct {
	ID            ID       `json:"id"`
	Company       string   `json:"company"`
	Role          string   `json:"role"`
	Location      string   `json:"location"`
	WorkType      WorkType `json:"workType"`
	Description   string   `json:"description"`
	Skills        []string `json:"skills"`
	MatchedSkills []string `json:"matchedSkills"`
	MatchScore    int      `json:"matchScore"`
	PostedAt      string   `json:"postedAt"`
	Salary        string   `json:"salary"`
	ApplyURL      string   `json:"applyUrl"`
	Source        string   `json:"source,omitempty"`
}

// NewRecommendationRecord normalizes one API match.
func NewRecommendationRecord(m Match) RecommendationRecord {
	in := m.Internship

	skills := append(make([]string, 0, len(in.Skills)), in.Skills...)

	score := 0
	if m.MatchScore != nil {
		score = clampScore(*m.MatchScore)
	}

	return RecommendationRecord{
		ID:            in.ID,
		Company:       orDefault(in.Company, PlaceholderCompany),
		Role:          orDefault(in.Role, PlaceholderRole),
		Location:      orDefault(in.Location, PlaceholderLocation),
		WorkType:      WorkType(orDefault(in.WorkType, string(WorkTypeUnknown))),
		Description:   orDefault(in.Description, ""),
		Skills:        skills,
		MatchedSkills: restrictToSkills(m.MatchedSkills, skills),
		MatchScore:    score,
		PostedAt:      orDefault(in.PostedAt, ""),
		Salary:        orDefault(in.Salary, PlaceholderSalary),
		ApplyURL:      orDefault(in.ApplyURL, ""),
		Source:        orDefault(in.Source, ""),
	}
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	if v := strings.TrimSpace(*s); v != "" {
		return v
	}
	return def
}

func clampScore(f float64) int {
	switch {
	case f != f || f < 0:
		return 0
	case f > 100:
		return 100
	}
	return int(f + 0.5)
}

// restrictToSkills keeps the entries of skills that some matched entry names, case-insensitively,
// in skills order and casing.
func restrictToSkills(matched, skills []string) []string {
	want := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		want[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}

	out := make([]string, 0, len(matched))
	seen := make(map[string]struct{}, len(matched))
	for _, s := range skills {
		key := strings.ToLower(s)
		if _, ok := want[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Summary is the short internship projection embedded in bookmarks and applications.
type Summary struct {
	ID       ID     `json:"id"`
	Company  string `json:"company"`
	Role     string `json:"role"`
	Location string `json:"location"`
	ApplyURL string `json:"applyUrl"`
}

// Summarize projects an API internship onto a Summary.
func Summarize(in *Internship) Summary {
	if in == nil {
		return Summary{Company: PlaceholderCompany, Role: PlaceholderRole, Location: PlaceholderLocation}
	}
	return Summary{
		ID:       in.ID,
		Company:  orDefault(in.Company, PlaceholderCompany),
		Role:     orDefault(in.Role, PlaceholderRole),
		Location: orDefault(in.Location, PlaceholderLocation),
		ApplyURL: orDefault(in.ApplyURL, ""),
	}
}
