package backdoor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/noah-isme/course-feedback-api/internal/dto"
	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// RemoveAndRestoreDataBundle clears the bundle's entities and persists it again. The token
// reflects whether the persist call returned 200; transport failures are returned as errors.
func (c *Client) RemoveAndRestoreDataBundle(ctx context.Context, bundle *models.DataBundle) (string, error) {
	if err := c.RemoveDataBundle(ctx, bundle); err != nil {
		return StatusFailure, err
	}
	body, err := encodeBundle(bundle)
	if err != nil {
		return StatusFailure, err
	}
	resp, err := c.ExecutePostRequest(ctx, ResourceDataBundle, nil, body)
	if err != nil {
		return StatusFailure, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Sugar().Warnw("data bundle restore rejected", "status", resp.StatusCode, "body", resp.Body)
		return StatusFailure, nil
	}
	return StatusSuccess, nil
}

// RemoveDataBundle deletes the bundle's entities. Entities that are already gone are not an error.
func (c *Client) RemoveDataBundle(ctx context.Context, bundle *models.DataBundle) error {
	body, err := encodeBundle(bundle)
	if err != nil {
		return err
	}
	_, err = c.ExecutePutRequest(ctx, ResourceDataBundle, nil, body)
	return err
}

// DeleteStudent removes every enrollment of the given google id.
func (c *Client) DeleteStudent(ctx context.Context, googleID string) error {
	params := url.Values{}
	params.Set("studentid", googleID)
	_, err := c.ExecuteDeleteRequest(ctx, ResourceStudents, params)
	return err
}

// DeleteFeedbackSession removes one feedback session.
func (c *Client) DeleteFeedbackSession(ctx context.Context, sessionName, courseID string) error {
	params := url.Values{}
	params.Set("fsname", sessionName)
	params.Set("courseid", courseID)
	_, err := c.ExecuteDeleteRequest(ctx, ResourceSession, params)
	return err
}

// GetCourse fetches a course as the API renders it.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*dto.CourseData, error) {
	var out dto.CourseData
	if err := c.fetch(ctx, ResourceCourse, url.Values{"courseid": {courseID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFeedbackSession fetches a feedback session.
func (c *Client) GetFeedbackSession(ctx context.Context, courseID, sessionName string) (*dto.FeedbackSessionData, error) {
	var out dto.FeedbackSessionData
	if err := c.fetch(ctx, ResourceSession, url.Values{"courseid": {courseID}, "fsname": {sessionName}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStudent fetches an enrollment by email.
func (c *Client) GetStudent(ctx context.Context, courseID, email string) (*dto.StudentData, error) {
	var out dto.StudentData
	if err := c.fetch(ctx, ResourceStudent, url.Values{"courseid": {courseID}, "studentemail": {email}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInstructor fetches an instructor by email.
func (c *Client) GetInstructor(ctx context.Context, courseID, email string) (*dto.InstructorData, error) {
	var out dto.InstructorData
	if err := c.fetch(ctx, ResourceInstructor, url.Values{"courseid": {courseID}, "instructoremail": {email}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount fetches an account by google id.
func (c *Client) GetAccount(ctx context.Context, googleID string) (*dto.AccountData, error) {
	var out dto.AccountData
	if err := c.fetch(ctx, ResourceAccount, url.Values{"instructorid": {googleID}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// fetch GETs a resource and decodes the data member of the response envelope into dest.
// Non-200 responses surface the server's error.
func (c *Client) fetch(ctx context.Context, resource string, params url.Values, dest interface{}) error {
	resp, err := c.ExecuteGetRequest(ctx, resource, params)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status,
			fmt.Sprintf("malformed response from %s (status %d)", resource, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		if env.Error != nil {
			return env.Error
		}
		return appErrors.New(appErrors.ErrTransport.Code, resp.StatusCode, fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, resource))
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "decode response data")
	}
	return nil
}

func encodeBundle(bundle *models.DataBundle) (string, error) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "encode data bundle")
	}
	return string(raw), nil
}
