package dto

import "github.com/noah-isme/course-feedback-api/internal/models"

// FeedbackSessionData is the wire form of a feedback session. Times are epoch milliseconds.
type FeedbackSessionData struct {
	CourseID               string `json:"courseId"`
	FeedbackSessionName    string `json:"feedbackSessionName"`
	CreatorEmail           string `json:"creatorEmail"`
	Instructions           string `json:"instructions"`
	TimeZone               string `json:"timeZone"`
	CreatedTimestamp       int64  `json:"createdAtTimestamp"`
	SubmissionStartTime    int64  `json:"submissionStartTimestamp"`
	SubmissionEndTime      int64  `json:"submissionEndTimestamp"`
	SessionVisibleFromTime int64  `json:"sessionVisibleFromTimestamp,omitempty"`
	ResultsVisibleFromTime int64  `json:"resultVisibleFromTimestamp,omitempty"`
	GracePeriod            int    `json:"gracePeriod"`
}

// NewFeedbackSessionData snapshots a session.
func NewFeedbackSessionData(session models.FeedbackSession) FeedbackSessionData {
	data := FeedbackSessionData{
		CourseID:            session.CourseID,
		FeedbackSessionName: session.Name,
		CreatorEmail:        session.CreatorEmail,
		Instructions:        session.Instructions,
		TimeZone:            session.TimeZone,
		CreatedTimestamp:    session.CreatedAt.UnixMilli(),
		SubmissionStartTime: session.StartTime.UnixMilli(),
		SubmissionEndTime:   session.EndTime.UnixMilli(),
		GracePeriod:         session.GracePeriodMinutes,
	}
	if session.SessionVisibleFromTime != nil {
		data.SessionVisibleFromTime = session.SessionVisibleFromTime.UnixMilli()
	}
	if session.ResultsVisibleFromTime != nil {
		data.ResultsVisibleFromTime = session.ResultsVisibleFromTime.UnixMilli()
	}
	return data
}

// OngoingSession is one entry of the ongoing sessions report.
type OngoingSession struct {
	SessionStatus       string `json:"sessionStatus"`
	StartTime           int64  `json:"startTime"`
	EndTime             int64  `json:"endTime"`
	CreatorEmail        string `json:"creatorEmail"`
	CourseID            string `json:"courseId"`
	FeedbackSessionName string `json:"feedbackSessionName"`
}

// OngoingSessionsData summarises sessions overlapping a query window, grouped by institute.
type OngoingSessionsData struct {
	TotalOngoingSessions  int                         `json:"totalOngoingSessions"`
	TotalOpenSessions     int                         `json:"totalOpenSessions"`
	TotalClosedSessions   int                         `json:"totalClosedSessions"`
	TotalAwaitingSessions int                         `json:"totalAwaitingSessions"`
	TotalInstitutes       int                         `json:"totalInstitutes"`
	Sessions              map[string][]OngoingSession `json:"sessions"`
}
