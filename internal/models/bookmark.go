// internal/models/bookmark.go
package models

// Bookmark is a saved internship.
type Bookmark struct {
	ID           ID          `json:"id"`
	InternshipID ID          `json:"internship_id"`
	CreatedAt    string      `json:"created_at"`
	Internship   *Internship `json:"internships"`
}

type BookmarkRequest struct {
	InternshipID ID `json:"internship_id"`
}

type BookmarkResponse struct {
	Message string `json:"message"`
	ID      ID     `json:"id"`
}

type BookmarkCheck struct {
	Bookmarked bool `json:"bookmarked"`
}
