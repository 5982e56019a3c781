package models

// DefaultSection is used for students enrolled without a section.
const DefaultSection = "None"

// Student is a course enrollment keyed by course and email.
type Student struct {
	CourseID string  `db:"course_id" json:"course" validate:"required"`
	Email    string  `db:"email" json:"email" validate:"required,email"`
	GoogleID *string `db:"google_id" json:"googleId,omitempty"`
	Name     string  `db:"name" json:"name" validate:"required"`
	Team     string  `db:"team" json:"team"`
	Section  string  `db:"section" json:"section"`
	Comments string  `db:"comments" json:"comments"`
}

// IsRegistered reports whether the student has joined with an account.
func (s Student) IsRegistered() bool {
	return s.GoogleID != nil && *s.GoogleID != ""
}
