// internal/listing/filter.go
package listing

import (
	"sort"
	"strconv"
	"strings"

	"careerlens/internal/common/metrics"
	"careerlens/internal/models"
)

// Apply returns the records that pass every active predicate, in display order. records is
// never modified and equal inputs always give equal outputs.
func Apply(records []models.RecommendationRecord, c Criteria) []models.RecommendationRecord {
	m := newMatcher(c)

	out := make([]models.RecommendationRecord, 0, len(records))
	for _, r := range records {
		if m.matches(r) {
			out = append(out, r)
		}
	}

	sortRecords(out, c.sortKey())
	metrics.FilterResultSize.Observe(float64(len(out)))
	return out
}

// matcher holds the lowercased criteria so each record costs no extra allocation per predicate.
type matcher struct {
	workType models.WorkType
	query    string
	location string
	minScore int
	skills   []string
}

func newMatcher(c Criteria) matcher {
	m := matcher{
		workType: c.workType(),
		query:    strings.ToLower(c.Query),
		location: strings.ToLower(c.Location),
		minScore: c.MinScore,
	}
	for _, s := range c.SelectedSkills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			m.skills = append(m.skills, s)
		}
	}
	return m
}

// matches evaluates the predicates in order and stops at the first failure.
func (m matcher) matches(r models.RecommendationRecord) bool {
	if m.workType != WorkTypeAll && r.WorkType != m.workType {
		return false
	}
	if m.query != "" &&
		!strings.Contains(strings.ToLower(r.Role), m.query) &&
		!strings.Contains(strings.ToLower(r.Company), m.query) &&
		!strings.Contains(strings.ToLower(r.Description), m.query) {
		return false
	}
	if m.location != "" && !strings.Contains(strings.ToLower(r.Location), m.location) {
		return false
	}
	if r.MatchScore < m.minScore {
		return false
	}
	if len(m.skills) > 0 && !m.hasSkill(r) {
		return false
	}
	return true
}

func (m matcher) hasSkill(r models.RecommendationRecord) bool {
	desc := strings.ToLower(r.Description)
	for _, want := range m.skills {
		for _, have := range r.Skills {
			if strings.ToLower(have) == want {
				return true
			}
		}
		if strings.Contains(desc, want) {
			return true
		}
	}
	return false
}

func sortRecords(records []models.RecommendationRecord, key SortKey) {
	switch key {
	case SortRecent:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].PostedAt > records[j].PostedAt
		})
	case SortSalary:
		keyed := make([]salaryKeyed, len(records))
		for i, r := range records {
			keyed[i] = salaryKeyed{record: r, value: SalaryValue(r.Salary)}
		}
		sort.SliceStable(keyed, func(i, j int) bool {
			return keyed[i].value > keyed[j].value
		})
		for i := range keyed {
			records[i] = keyed[i].record
		}
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].MatchScore > records[j].MatchScore
		})
	}
}

type salaryKeyed struct {
	record models.RecommendationRecord
	value  int64
}

// SalaryValue strips every non-digit from s and parses the rest. No digits, or more digits
// than fit in an int64, gives 0.
func SalaryValue(s string) int64 {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Facets lists the distinct values present in records, for building filter menus.
type Facets struct {
	WorkTypes []models.WorkType
	Locations []string
	Skills    []string
}

// BuildFacets collects facets. Values are deduplicated case-insensitively, keep the casing
// first seen, and are sorted.
func BuildFacets(records []models.RecommendationRecord) Facets {
	workTypes := map[models.WorkType]struct{}{}
	locations := map[string]string{}
	skills := map[string]string{}

	for _, r := range records {
		workTypes[r.WorkType] = struct{}{}
		if r.Location != models.PlaceholderLocation {
			addFolded(locations, r.Location)
		}
		for _, s := range r.Skills {
			addFolded(skills, s)
		}
	}

	f := Facets{}
	for wt := range workTypes {
		f.WorkTypes = append(f.WorkTypes, wt)
	}
	sort.Slice(f.WorkTypes, func(i, j int) bool { return f.WorkTypes[i] < f.WorkTypes[j] })
	f.Locations = sortedValues(locations)
	f.Skills = sortedValues(skills)
	return f
}

func addFolded(m map[string]string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	key := strings.ToLower(v)
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
