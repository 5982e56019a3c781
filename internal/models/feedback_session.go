package models

import "time"

// SessionStatus classifies a session relative to the current time.
type SessionStatus string

const (
	SessionStatusAwaiting SessionStatus = "awaiting"
	SessionStatusOpen     SessionStatus = "open"
	SessionStatusClosed   SessionStatus = "closed"
)

// FeedbackSession is a time-boxed feedback collection window within a course.
type FeedbackSession struct {
	CourseID               string     `db:"course_id" json:"courseId" validate:"required"`
	Name                   string     `db:"name" json:"feedbackSessionName" validate:"required,max=64"`
	CreatorEmail           string     `db:"creator_email" json:"creatorEmail" validate:"required,email"`
	Instructions           string     `db:"instructions" json:"instructions"`
	CreatedAt              time.Time  `db:"created_at" json:"createdTime"`
	StartTime              time.Time  `db:"start_time" json:"startTime" validate:"required"`
	EndTime                time.Time  `db:"end_time" json:"endTime" validate:"required,gtefield=StartTime"`
	SessionVisibleFromTime *time.Time `db:"session_visible_from_time" json:"sessionVisibleFromTime,omitempty"`
	ResultsVisibleFromTime *time.Time `db:"results_visible_from_time" json:"resultsVisibleFromTime,omitempty"`
	TimeZone               string     `db:"time_zone" json:"timeZone" validate:"required"`
	GracePeriodMinutes     int        `db:"grace_period_minutes" json:"gracePeriod" validate:"gte=0"`
	DeletedAt              *time.Time `db:"deleted_at" json:"deletedTime,omitempty"`
}

// StatusAt classifies the session at the supplied instant. Both window bounds count as open.
func (s FeedbackSession) StatusAt(now time.Time) SessionStatus {
	switch {
	case now.Before(s.StartTime):
		return SessionStatusAwaiting
	case now.After(s.EndTime):
		return SessionStatusClosed
	default:
		return SessionStatusOpen
	}
}

// InstituteSession pairs a session with the institute of its course.
type InstituteSession struct {
	FeedbackSession
	Institute string `db:"institute" json:"institute"`
}
