// internal/models/resume.go
package models

// ResumeUploadResult is the parsed and scored resume returned by the upload endpoint.
type ResumeUploadResult struct {
	ID        ID       `json:"id"`
	FileName  string   `json:"file_name"`
	FileURL   string   `json:"file_url"`
	ATSScore  *int     `json:"ats_score"`
	Skills    []string `json:"skills"`
	CreatedAt string   `json:"created_at"`
}

// ScrapeRequest asks the backend to refresh listings. Empty fields are omitted.
type ScrapeRequest struct {
	Categories []string `json:"categories,omitempty"`
	WorkType   string   `json:"work_type,omitempty"`
	Location   string   `json:"location,omitempty"`
}

type ScrapeResponse struct {
	Message    string   `json:"message"`
	Categories []string `json:"categories"`
}
