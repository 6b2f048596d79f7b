package models

import "time"

// AgeGroup buckets children for classroom placement, ratios and curriculum.
type AgeGroup string

const (
	AgeInfant    AgeGroup = "infant"
	AgeToddler   AgeGroup = "toddler"
	AgePreschool AgeGroup = "preschool"
	AgeSchoolAge AgeGroup = "school_age"
)

// Valid reports whether g is one of the known age groups.
func (g AgeGroup) Valid() bool {
	switch g {
	case AgeInfant, AgeToddler, AgePreschool, AgeSchoolAge:
		return true
	}
	return false
}

// Family is a parent account.
type Family struct {
	Meta

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	// PasswordHash is the bcrypt hash of the parent portal password.
	PasswordHash string `json:"passwordHash,omitempty"`

	Parents  []Guardian `json:"parents"`
	Children []Child    `json:"children"`
}

// Guardian is an adult authorised on the family account.
type Guardian struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CanPickUp    bool   `json:"canPickUp"`
}

// Child is an enrolled child. Child ids are unique within the family.
type Child struct {
	ID        string           `json:"id"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	BirthDate time.Time        `json:"birthDate"`
	Classroom string           `json:"classroom"`
	AgeGroup  AgeGroup         `json:"ageGroup"`
	Allergies []string         `json:"allergies,omitempty"`
	Reports   []ProgressReport `json:"progressReports,omitempty"`
}

// ProgressReport is a teacher's periodic note on a child's development.
type ProgressReport struct {
	ID      string            `json:"id"`
	Date    time.Time         `json:"date"`
	Author  string            `json:"author"`
	Summary string            `json:"summary"`
	Ratings map[string]string `json:"ratings,omitempty"`
}
