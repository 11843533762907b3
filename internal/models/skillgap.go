// internal/models/skillgap.go
package models

import "io"

// SkillGapRequest compares a job description with a resume given either as text or as a
// file (PDF, DOCX or TXT). ResumeFile wins when both are set.
type SkillGapRequest struct {
	JobDescription string
	ResumeText     string
	ResumeFileName string
	ResumeFile     io.Reader
}

type SkillGapResult struct {
	MatchScore        int      `json:"match_score"`
	JDSkills          []string `json:"jd_skills"`
	ResumeSkills      []string `json:"resume_skills"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	ExtraSkills       []string `json:"extra_skills"`
	TotalJDSkills     int      `json:"total_jd_skills"`
	TotalResumeSkills int      `json:"total_resume_skills"`
	TotalMatched      int      `json:"total_matched"`
	TotalMissing      int      `json:"total_missing"`
	Recommendations   []string `json:"recommendations"`
}
