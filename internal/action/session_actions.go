package action

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/noah-isme/course-feedback-api/internal/dto"
	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
	"github.com/noah-isme/course-feedback-api/pkg/export"
)

// ongoingWindow parses the starttime/endtime epoch millisecond bounds.
type ongoingWindow struct {
	start time.Time
	end   time.Time
}

func (w *ongoingWindow) parse(req *Request) error {
	startMs, err := req.RequiredInt64Param(ParamStartTime)
	if err != nil {
		return err
	}
	endMs, err := req.RequiredInt64Param(ParamEndTime)
	if err != nil {
		return err
	}
	if endMs < startMs {
		return appErrors.Clone(appErrors.ErrInvalidParameters, "The filter range is not valid. End time should be after start time.")
	}
	w.start = time.UnixMilli(startMs).UTC()
	w.end = time.UnixMilli(endMs).UTC()
	return nil
}

// GetOngoingSessions reports sessions overlapping a window, for administrators.
type GetOngoingSessions struct {
	deps   Deps
	gate   gateKeeper
	window ongoingWindow
}

// NewGetOngoingSessions builds the action.
func NewGetOngoingSessions(deps Deps) Action {
	return &GetOngoingSessions{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetOngoingSessions) AuthType() AuthType { return AuthLoggedIn }

func (a *GetOngoingSessions) Validate(req *Request) error { return a.window.parse(req) }

func (a *GetOngoingSessions) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

// Execute godoc
// @Summary List sessions overlapping a time range
// @Tags Sessions
// @Produce json
// @Param starttime query int true "Range start (epoch milliseconds)"
// @Param endtime query int true "Range end (epoch milliseconds)"
// @Success 200 {object} dto.OngoingSessionsData
// @Failure 400 {object} appErrors.Error
// @Security BearerAuth
// @Router /sessions/ongoing [get]
func (a *GetOngoingSessions) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	sessions, err := a.deps.Logic.GetOngoingSessions(ctx, a.window.start, a.window.end)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: buildOngoingSessions(sessions, a.deps.now())}, nil
}

// buildOngoingSessions classifies each overlapping session relative to now and groups them by institute.
func buildOngoingSessions(sessions []models.InstituteSession, now time.Time) dto.OngoingSessionsData {
	out := dto.OngoingSessionsData{Sessions: map[string][]dto.OngoingSession{}}
	for _, s := range sessions {
		status := s.StatusAt(now)
		switch status {
		case models.SessionStatusAwaiting:
			out.TotalAwaitingSessions++
		case models.SessionStatusOpen:
			out.TotalOpenSessions++
		case models.SessionStatusClosed:
			out.TotalClosedSessions++
		}
		out.TotalOngoingSessions++
		out.Sessions[s.Institute] = append(out.Sessions[s.Institute], dto.OngoingSession{
			SessionStatus:       string(status),
			StartTime:           s.StartTime.UnixMilli(),
			EndTime:             s.EndTime.UnixMilli(),
			CreatorEmail:        s.CreatorEmail,
			CourseID:            s.CourseID,
			FeedbackSessionName: s.Name,
		})
	}
	for institute := range out.Sessions {
		list := out.Sessions[institute]
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime < list[j].StartTime })
	}
	out.TotalInstitutes = len(out.Sessions)
	return out
}

// ExportOngoingSessions renders the ongoing sessions report as a document.
type ExportOngoingSessions struct {
	deps     Deps
	gate     gateKeeper
	window   ongoingWindow
	exporter export.Exporter
}

// NewExportOngoingSessions builds the action.
func NewExportOngoingSessions(deps Deps) Action {
	return &ExportOngoingSessions{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *ExportOngoingSessions) AuthType() AuthType { return AuthLoggedIn }

func (a *ExportOngoingSessions) Validate(req *Request) error {
	if err := a.window.parse(req); err != nil {
		return err
	}
	format := req.Param(ParamFormat)
	if format == "" {
		format = export.FormatCSV
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, err.Error())
	}
	a.exporter = exporter
	return nil
}

func (a *ExportOngoingSessions) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

var ongoingExportHeaders = []string{"Institute", "Course", "Session", "Creator", "Start", "End", "Status"}

// Execute godoc
// @Summary Export sessions overlapping a time range
// @Tags Sessions
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param starttime query int true "Range start (epoch milliseconds)"
// @Param endtime query int true "Range end (epoch milliseconds)"
// @Param format query string false "Document format" Enums(csv, pdf, xlsx)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /sessions/ongoing/export [get]
func (a *ExportOngoingSessions) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	sessions, err := a.deps.Logic.GetOngoingSessions(ctx, a.window.start, a.window.end)
	if err != nil {
		return nil, err
	}
	report := buildOngoingSessions(sessions, a.deps.now())

	institutes := make([]string, 0, len(report.Sessions))
	for institute := range report.Sessions {
		institutes = append(institutes, institute)
	}
	sort.Strings(institutes)

	dataset := export.Dataset{Title: "Ongoing sessions", Headers: ongoingExportHeaders}
	for _, institute := range institutes {
		for _, s := range report.Sessions[institute] {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Institute": institute,
				"Course":    s.CourseID,
				"Session":   s.FeedbackSessionName,
				"Creator":   s.CreatorEmail,
				"Start":     time.UnixMilli(s.StartTime).UTC().Format(time.RFC3339),
				"End":       time.UnixMilli(s.EndTime).UTC().Format(time.RFC3339),
				"Status":    s.SessionStatus,
			})
		}
	}

	data, err := a.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("ongoing-sessions-%d-%d.%s", a.window.start.UnixMilli(), a.window.end.UnixMilli(), a.exporter.Extension())
	return &Result{
		Status: http.StatusOK,
		File:   &FileOutput{Filename: filename, ContentType: a.exporter.ContentType(), Data: data},
	}, nil
}

// GetFeedbackSession returns one session to an instructor of its course.
type GetFeedbackSession struct {
	deps     Deps
	gate     gateKeeper
	courseID string
	name     string
}

// NewGetFeedbackSession builds the action.
func NewGetFeedbackSession(deps Deps) Action {
	return &GetFeedbackSession{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *GetFeedbackSession) AuthType() AuthType { return AuthLoggedIn }

func (a *GetFeedbackSession) Validate(req *Request) error {
	var err error
	if a.courseID, err = req.RequiredParam(ParamCourseID); err != nil {
		return err
	}
	a.name, err = req.RequiredParam(ParamSessionName)
	return err
}

func (a *GetFeedbackSession) CheckAccess(ctx context.Context, user UserInfo) error {
	if user.IsAdmin {
		return nil
	}
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, "")
	return err
}

// Execute godoc
// @Summary Get a feedback session
// @Tags Sessions
// @Produce json
// @Param courseid query string true "Course ID"
// @Param fsname query string true "Session name"
// @Success 200 {object} dto.FeedbackSessionData
// @Failure 404 {object} appErrors.Error
// @Security BearerAuth
// @Router /session [get]
func (a *GetFeedbackSession) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	session, err := a.deps.Logic.GetFeedbackSession(ctx, a.courseID, a.name)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.NewFeedbackSessionData(*session)}, nil
}

// DeleteFeedbackSession removes a session. Deleting an absent session succeeds.
type DeleteFeedbackSession struct {
	deps     Deps
	gate     gateKeeper
	courseID string
	name     string
}

// NewDeleteFeedbackSession builds the action.
func NewDeleteFeedbackSession(deps Deps) Action {
	return &DeleteFeedbackSession{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *DeleteFeedbackSession) AuthType() AuthType { return AuthLoggedIn }

func (a *DeleteFeedbackSession) Validate(req *Request) error {
	var err error
	if a.courseID, err = req.RequiredParam(ParamCourseID); err != nil {
		return err
	}
	a.name, err = req.RequiredParam(ParamSessionName)
	return err
}

func (a *DeleteFeedbackSession) CheckAccess(ctx context.Context, user UserInfo) error {
	_, err := a.gate.verifyInstructorPrivilege(ctx, user, a.courseID, models.PrivilegeModifySession)
	return err
}

// Execute godoc
// @Summary Delete a feedback session
// @Tags Sessions
// @Produce json
// @Param courseid query string true "Course ID"
// @Param fsname query string true "Session name"
// @Success 200 {object} dto.MessageOutput
// @Security BearerAuth
// @Router /session [delete]
func (a *DeleteFeedbackSession) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if err := a.deps.Logic.DeleteFeedbackSessionCascade(ctx, a.courseID, a.name); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: "The feedback session is deleted."}}, nil
}
