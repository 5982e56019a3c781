package action

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// HTTP parameter names.
const (
	ParamCourseID        = "courseid"
	ParamUser            = "user"
	ParamSessionName     = "fsname"
	ParamStartTime       = "starttime"
	ParamEndTime         = "endtime"
	ParamStudentID       = "studentid"
	ParamStudentEmail    = "studentemail"
	ParamInstructorEmail = "instructoremail"
	ParamInstructorID    = "instructorid"
	ParamEntityType      = "entitytype"
	ParamCourseStatus    = "coursestatus"
	ParamFormat          = "format"
)

// Entity types accepted by listing endpoints.
const (
	EntityTypeInstructor = "instructor"
	EntityTypeStudent    = "student"
)

// Request is the transport independent view of an incoming call.
type Request struct {
	Params url.Values
	Body   []byte
	Claims *models.JWTClaims
}

// Param returns the trimmed value of a parameter or "".
func (r *Request) Param(name string) string {
	if r == nil || r.Params == nil {
		return ""
	}
	return strings.TrimSpace(r.Params.Get(name))
}

// RequiredParam returns a non-empty parameter value or an invalid parameters error.
func (r *Request) RequiredParam(name string) (string, error) {
	value := r.Param(name)
	if value == "" {
		return "", appErrors.Clone(appErrors.ErrInvalidParameters, fmt.Sprintf("The [%s] HTTP parameter is null.", name))
	}
	return value, nil
}

// RequiredInt64Param parses a required integer parameter.
func (r *Request) RequiredInt64Param(name string) (int64, error) {
	raw, err := r.RequiredParam(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status,
			fmt.Sprintf("Expected long value for %s parameter, but found: [%s]", name, raw))
	}
	return value, nil
}

// DecodeBody unmarshals the JSON body into dest.
func (r *Request) DecodeBody(dest interface{}) error {
	if r == nil || len(r.Body) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidParameters, "request body is required")
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "malformed request body")
	}
	return nil
}
