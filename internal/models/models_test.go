package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "string", in: `"abc-1"`, want: "abc-1"},
		{name: "integer", in: `42`, want: "42"},
		{name: "null", in: `null`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestNewRecommendationRecord_Placeholders(t *testing.T) {
	var m Match
	require.NoError(t, json.Unmarshal([]byte(`{"internship":{"id":7,"company":null,"role":"  ","skills":null}}`), &m))

	rec := NewRecommendationRecord(m)
	assert.Equal(t, ID("7"), rec.ID)
	assert.Equal(t, PlaceholderCompany, rec.Company)
	assert.Equal(t, PlaceholderRole, rec.Role)
	assert.Equal(t, PlaceholderLocation, rec.Location)
	assert.Equal(t, WorkTypeUnknown, rec.WorkType)
	assert.Equal(t, PlaceholderSalary, rec.Salary)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.ApplyURL)
	assert.Equal(t, 0, rec.MatchScore)
	assert.NotNil(t, rec.Skills)
	assert.NotNil(t, rec.MatchedSkills)
}

func TestNewRecommendationRecord_MatchedSkillsSubset(t *testing.T) {
	score := 87.4
	m := Match{
		Internship:    Internship{ID: "a", Skills: []string{"Python", "SQL", "React", "python"}},
		MatchScore:    &score,
		MatchedSkills: []string{"sql", "PYTHON", "Kubernetes"},
	}

	rec := NewRecommendationRecord(m)
	assert.Equal(t, []string{"Python", "SQL"}, rec.MatchedSkills)
	assert.Equal(t, 87, rec.MatchScore)
	assert.Equal(t, []string{"Python", "SQL", "React", "python"}, rec.Skills)
}

func TestNewRecommendationRecord_ScoreClamped(t *testing.T) {
	high, low := 140.0, -3.0
	assert.Equal(t, 100, NewRecommendationRecord(Match{MatchScore: &high}).MatchScore)
	assert.Equal(t, 0, NewRecommendationRecord(Match{MatchScore: &low}).MatchScore)
}

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range ApplicationStatuses {
		got, err := ParseApplicationStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseApplicationStatus("applied")
	assert.Error(t, err)
}

func TestTokenResponse_ToSession(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	s := (&TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}).ToSession(now)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)
	assert.True(t, s.IsExpired(0))
	assert.False(t, (&Session{}).IsExpired(time.Minute))

	s = (&TokenResponse{ExpiresIn: 3600, ExpiresAt: 1_700_000_100}).ToSession(now)
	assert.Equal(t, time.Unix(1_700_000_100, 0), s.ExpiresAt)
	assert.True(t, s.IsExpired(0))
}

func TestUser_FullName(t *testing.T) {
	u := &User{Metadata: map[string]interface{}{"full_name": "Ada Lovelace"}}
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.Empty(t, (*User)(nil).FullName())
}
