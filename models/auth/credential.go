package auth

import "strings"

type TeacherCredential struct {
	ID           string  `json:"id" db:"id"`
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password_hash"`
	SchoolID     string  `json:"school_id" db:"school_id"`
	FullName     *string `json:"full_name,omitempty" db:"full_name"`
}

func (c *TeacherCredential) Identity() Identity {
	id := Identity{
		ID:       c.ID,
		Username: c.Username,
		Role:     RoleTeacher,
		SchoolID: c.SchoolID,
	}
	if c.FullName != nil {
		id.FullName = *c.FullName
	}
	return id
}

type CentralOfficeCredential struct {
	ID           string `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

func (c *CentralOfficeCredential) Identity() Identity {
	return Identity{
		ID:       c.ID,
		Username: c.Username,
		Role:     RoleCentralOffice,
	}
}

// NormalizeUsername trims surrounding whitespace and lower-cases the name.
// Usernames are stored and looked up in this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
