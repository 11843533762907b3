// internal/models/dashboard.go
package models

import "encoding/json"

// Dashboard is the per-user summary: skill demand, application funnel, match overview,
// recent activity and most frequent companies.
type Dashboard struct {
	SkillsDistribution []SkillDemand  `json:"skills_distribution"`
	RawFunnel          map[string]int `json:"application_funnel"`
	MatchOverview      MatchOverview  `json:"match_overview"`
	RecentActivity     []Activity     `json:"recent_activity"`
	TopCompanies       []CompanyCount `json:"top_companies"`

	// Funnel is RawFunnel keyed by status.
	Funnel ApplicationStats `json:"-"`
}

// UnmarshalJSON decodes the funnel object into Funnel as well as RawFunnel.
func (d *Dashboard) UnmarshalJSON(data []byte) error {
	type plain Dashboard
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Dashboard(p)
	d.Funnel = StatsFromCounts(d.RawFunnel)
	return nil
}

// SkillDemand counts how many saved or applied internships ask for a skill. Owned is false
// for in-demand skills missing from the resume.
type SkillDemand struct {
	Skill  string `json:"skill"`
	Owned  bool   `json:"owned"`
	Demand int    `json:"demand"`
}

// MatchOverview is empty when the user has no resume skills yet.
type MatchOverview struct {
	AverageScore     int `json:"average_score"`
	TopScore         int `json:"top_score"`
	Above80          int `json:"above_80"`
	Above60          int `json:"above_60"`
	TotalInternships int `json:"total_internships"`
}

type Activity struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Time  string `json:"time"`
}

type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}
