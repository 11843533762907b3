// pkg/contracts/registry.go
package contracts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// Contract IDs, one per gateway operation with a JSON body.
const (
	RecommendationsList = "recommendations.list"
	BookmarksList       = "bookmarks.list"
	BookmarksAdd        = "bookmarks.add"
	BookmarksRemove     = "bookmarks.remove"
	BookmarksCheck      = "bookmarks.check"
	ApplicationsList    = "applications.list"
	ApplicationsCreate  = "applications.create"
	ApplicationsUpdate  = "applications.update"
	ApplicationsDelete  = "applications.delete"
	ApplicationsStats   = "applications.stats"
	InternshipsScrape   = "internships.scrape"
	ResumeUpload        = "resume.upload"
	ProfileGet          = "profile.get"
	ProfileSkills       = "profile.skills"
	PreferencesGet      = "preferences.get"
	PreferencesSave     = "preferences.save"
	DashboardGet        = "dashboard.get"
	SkillGapAnalyze     = "skillgap.analyze"
)

//go:embed contracts.json
var embedded []byte

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(embedded)
}

// LoadRegistry reads a registry from disk, for pointing the client at a newer API.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse contract registry: %w", err)
	}
	return &reg, nil
}

// Get looks up a contract by ID.
func (r *Registry) Get(id string) (*Contract, bool) {
	for i := range r.Contracts {
		if r.Contracts[i].ID == id {
			return &r.Contracts[i], true
		}
	}
	return nil, false
}
