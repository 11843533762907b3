// internal/models/profile.go
package models

// Profile is the aggregated view behind the profile page: account, latest resume,
// preferences and counters.
type Profile struct {
	User         ProfileUser    `json:"user"`
	LatestResume *ResumeSummary `json:"latest_resume"`
	Preferences  Preferences    `json:"preferences"`
	Stats        ProfileStats   `json:"stats"`
}

type ProfileUser struct {
	ID        ID     `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ResumeSummary is the most recent resume. Its skills drive matching.
type ResumeSummary struct {
	ID        ID       `json:"id"`
	FileName  string   `json:"file_name"`
	Skills    []string `json:"skills"`
	ATSScore  *int     `json:"ats_score"`
	CreatedAt string   `json:"created_at"`
}

type ProfileStats struct {
	ResumesUploaded int `json:"resumes_uploaded"`
}

// Skills returns the latest resume's skills, or nil before any upload.
func (p *Profile) Skills() []string {
	if p == nil || p.LatestResume == nil {
		return nil
	}
	return p.LatestResume.Skills
}

// Preferences are the user's career preferences. The API answers with defaults
// (work mode Remote, empty id) when none were saved.
type Preferences struct {
	ID                ID       `json:"id,omitempty"`
	UserID            string   `json:"user_id,omitempty"`
	InternshipType    string   `json:"internship_type"`
	WorkMode          string   `json:"work_mode"`
	PreferredLocation string   `json:"preferred_location"`
	TargetRoles       []string `json:"target_roles,omitempty"`
	UpdatedAt         string   `json:"updated_at,omitempty"`
}

// PreferencesUpdate is the body of a preferences save.
type PreferencesUpdate struct {
	InternshipType    string   `json:"internship_type"`
	WorkMode          string   `json:"work_mode"`
	PreferredLocation string   `json:"preferred_location"`
	TargetRoles       []string `json:"target_roles"`
}

type SkillsUpdate struct {
	Skills []string `json:"skills"`
}

type SkillsUpdateResponse struct {
	Message string   `json:"message"`
	Skills  []string `json:"skills"`
}
