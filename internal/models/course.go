package models

import "time"

// DefaultInstitute is recorded for courses created by accounts without an institute.
const DefaultInstitute = "Unknown Institution"

// Course is a teaching unit. A non-nil DeletedAt means the course sits in the recycle bin.
type Course struct {
	ID        string     `db:"id" json:"id" validate:"required,max=64"`
	Name      string     `db:"name" json:"name" validate:"required,max=80"`
	TimeZone  string     `db:"time_zone" json:"timeZone" validate:"required"`
	Institute string     `db:"institute" json:"institute"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// IsSoftDeleted reports whether the course is in the recycle bin.
func (c Course) IsSoftDeleted() bool {
	return c.DeletedAt != nil
}

// CourseStatus selects active or recycled courses when listing.
type CourseStatus string

const (
	CourseStatusActive      CourseStatus = "active"
	CourseStatusSoftDeleted CourseStatus = "softDeleted"
)
