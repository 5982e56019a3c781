package models

// DataBundle is a labelled set of entities seeded or removed as one unit.
type DataBundle struct {
	Accounts         map[string]Account         `json:"accounts,omitempty" validate:"dive"`
	Courses          map[string]Course          `json:"courses,omitempty" validate:"dive"`
	Instructors      map[string]Instructor      `json:"instructors,omitempty" validate:"dive"`
	Students         map[string]Student         `json:"students,omitempty" validate:"dive"`
	FeedbackSessions map[string]FeedbackSession `json:"feedbackSessions,omitempty" validate:"dive"`
}

// IsEmpty reports whether the bundle names no entities.
func (b DataBundle) IsEmpty() bool {
	return len(b.Accounts) == 0 && len(b.Courses) == 0 && len(b.Instructors) == 0 &&
		len(b.Students) == 0 && len(b.FeedbackSessions) == 0
}
