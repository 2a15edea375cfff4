package school

// School is reference data managed outside this service.
type School struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
