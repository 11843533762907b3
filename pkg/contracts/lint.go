// pkg/contracts/lint.go
package contracts

import (
	"fmt"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
)

// IDs lists every contract the gateway relies on.
var IDs = []string{
	RecommendationsList, BookmarksList, BookmarksAdd, BookmarksRemove, BookmarksCheck,
	ApplicationsList, ApplicationsCreate, ApplicationsUpdate, ApplicationsDelete,
	ApplicationsStats, InternshipsScrape, ResumeUpload,
	ProfileGet, ProfileSkills, PreferencesGet, PreferencesSave, DashboardGet, SkillGapAnalyze,
}

// Lint reports every structural problem in the registry. An empty result means the gateway
// can validate against it.
func (r *Registry) Lint() []string {
	var problems []string
	seen := make(map[string]bool, len(r.Contracts))

	for i, c := range r.Contracts {
		if c.ID == "" {
			problems = append(problems, fmt.Sprintf("contract #%d has no id", i))
			continue
		}
		if seen[c.ID] {
			problems = append(problems, fmt.Sprintf("duplicate contract id: %s", c.ID))
		}
		seen[c.ID] = true

		switch c.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			problems = append(problems, fmt.Sprintf("%s: unsupported method %q", c.ID, c.Method))
		}
		if c.Path == "" {
			problems = append(problems, fmt.Sprintf("%s: missing path", c.ID))
		}
		if len(c.ResponseSchema) == 0 {
			problems = append(problems, fmt.Sprintf("%s: missing responseSchema", c.ID))
			continue
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(c.ResponseSchema)); err != nil {
			problems = append(problems, fmt.Sprintf("%s: schema does not compile: %v", c.ID, err))
		}
	}

	for _, id := range IDs {
		if !seen[id] {
			problems = append(problems, fmt.Sprintf("missing contract: %s", id))
		}
	}
	return problems
}
