package auth

// Identity is a verified user. It never carries secret material.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

func (i Identity) IsCentralOffice() bool {
	return i.Role == RoleCentralOffice
}
