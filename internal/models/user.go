// internal/models/user.go
package models

// User is the signed-in account.
type User struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// FullName returns user_metadata.full_name when set.
func (u *User) FullName() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	name, _ := u.Metadata["full_name"].(string)
	return name
}
