// internal/listing/criteria.go
package listing

import (
	"fmt"
	"strings"

	"careerlens/internal/common/errors"
	"careerlens/internal/models"
)

// SortKey selects the display order.
type SortKey string

const (
	SortMatch  SortKey = "match"
	SortRecent SortKey = "recent"
	SortSalary SortKey = "salary"
)

// WorkTypeAll disables the work type predicate.
const WorkTypeAll models.WorkType = "All"

// Criteria is the user's current filter and sort selection. The zero value behaves like
// DefaultCriteria.
type Criteria struct {
	Query          string
	WorkType       models.WorkType
	Location       string
	MinScore       int
	SelectedSkills []string
	SortKey        SortKey
}

func DefaultCriteria() Criteria {
	return Criteria{WorkType: WorkTypeAll, SortKey: SortMatch}
}

// ParseSortKey accepts match, recent or salary. Empty means match.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortMatch, nil
	case SortMatch, SortRecent, SortSalary:
		return k, nil
	}
	return "", errors.NewValidationError(fmt.Sprintf("unknown sort key %q (want match, recent or salary)", s))
}

// ParseWorkType matches a work type case-insensitively. Empty means All.
func ParseWorkType(s string) (models.WorkType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WorkTypeAll, nil
	}
	for _, wt := range []models.WorkType{WorkTypeAll, models.WorkTypeRemote, models.WorkTypeOnSite, models.WorkTypeInOffice, models.WorkTypeHybrid, models.WorkTypeUnknown} {
		if strings.EqualFold(s, string(wt)) {
			return wt, nil
		}
	}
	return "", errors.NewValidationError(fmt.Sprintf("unknown work type %q", s))
}

// Validate rejects criteria a filter menu could never produce.
func (c Criteria) Validate() error {
	if _, err := ParseSortKey(string(c.SortKey)); err != nil {
		return err
	}
	if c.WorkType != "" {
		if wt, err := ParseWorkType(string(c.WorkType)); err != nil || wt != c.WorkType {
			return errors.NewValidationError(fmt.Sprintf("unknown work type %q", c.WorkType))
		}
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return errors.NewValidationError(fmt.Sprintf("minimum score %d is outside 0..100", c.MinScore))
	}
	return nil
}

func (c Criteria) workType() models.WorkType {
	if c.WorkType == "" {
		return WorkTypeAll
	}
	return c.WorkType
}

func (c Criteria) sortKey() SortKey {
	if c.SortKey == "" {
		return SortMatch
	}
	return c.SortKey
}
