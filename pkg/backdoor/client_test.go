package backdoor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

type recordedRequest struct {
	Method   string
	Path     string
	Query    url.Values
	Body     string
	Backdoor string
	CSRF     string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   map[string]int
	body     map[string]string
}

func (r *recorder) handler(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		Method:   req.Method,
		Path:     req.URL.Path,
		Query:    req.URL.Query(),
		Body:     string(raw),
		Backdoor: req.Header.Get(HeaderBackdoorKey),
		CSRF:     req.Header.Get(HeaderCSRFKey),
	})
	key := req.Method + " " + req.URL.Path
	status, ok := r.status[key]
	body := r.body[key]
	r.mu.Unlock()

	if !ok {
		status = http.StatusOK
	}
	if body == "" {
		body = `{"data":{"message":"OK"}}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestClient(t *testing.T) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{status: map[string]int{}, body: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(srv.Close)

	client := New(Config{BaseURL: srv.URL + "/", BackdoorKey: "bk", CSRFKey: "ck", Timeout: 5 * time.Second}, zap.NewNop())
	return client, rec
}

func typicalBundle() *models.DataBundle {
	return &models.DataBundle{
		Courses: map[string]models.Course{
			"typicalCourse1": {ID: "idOfTypicalCourse1", Name: "Typical Course 1", TimeZone: "UTC"},
		},
	}
}

func TestEveryRequestCarriesSecrets(t *testing.T) {
	client, rec := newTestClient(t)
	ctx := context.Background()

	_, err := client.ExecuteGetRequest(ctx, "/course", url.Values{"courseid": {"c1"}})
	require.NoError(t, err)
	_, err = client.ExecutePostRequest(ctx, "/databundle", nil, "{}")
	require.NoError(t, err)
	_, err = client.ExecutePutRequest(ctx, "/databundle", nil, "{}")
	require.NoError(t, err)
	_, err = client.ExecuteDeleteRequest(ctx, "/students", url.Values{"studentid": {"s1"}})
	require.NoError(t, err)

	require.Len(t, rec.requests, 4)
	for _, r := range rec.requests {
		assert.Equal(t, "bk", r.Backdoor, r.Method)
		assert.Equal(t, "ck", r.CSRF, r.Method)
	}
	assert.Equal(t, "/webapi/course", rec.requests[0].Path)
	assert.Equal(t, "c1", rec.requests[0].Query.Get("courseid"))
	assert.Equal(t, "{}", rec.requests[1].Body)
	assert.Empty(t, rec.requests[3].Body)
}

func TestMultiValuedParameters(t *testing.T) {
	client, rec := newTestClient(t)

	_, err := client.ExecuteGetRequest(context.Background(), "/course", url.Values{"a": {"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, rec.requests[0].Query["a"])
}

func TestRemoveAndRestoreDataBundle(t *testing.T) {
	client, rec := newTestClient(t)

	status, err := client.RemoveAndRestoreDataBundle(context.Background(), typicalBundle())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, http.MethodPut, rec.requests[0].Method)
	assert.Equal(t, http.MethodPost, rec.requests[1].Method)
	assert.Equal(t, "/webapi/databundle", rec.requests[1].Path)

	var sent models.DataBundle
	require.NoError(t, json.Unmarshal([]byte(rec.requests[1].Body), &sent))
	assert.Equal(t, "idOfTypicalCourse1", sent.Courses["typicalCourse1"].ID)
}

func TestRemoveAndRestoreDataBundleReportsFailure(t *testing.T) {
	client, rec := newTestClient(t)
	rec.status["POST /webapi/databundle"] = http.StatusBadRequest

	status, err := client.RemoveAndRestoreDataBundle(context.Background(), typicalBundle())
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, status)
}

func TestRemoveDataBundleToleratesAbsentEntities(t *testing.T) {
	client, rec := newTestClient(t)
	rec.status["PUT /webapi/databundle"] = http.StatusNotFound

	require.NoError(t, client.RemoveDataBundle(context.Background(), typicalBundle()))
}

func TestDeletionHelpers(t *testing.T) {
	client, rec := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.DeleteStudent(ctx, "unreg.user"))
	require.NoError(t, client.DeleteFeedbackSession(ctx, "First feedback session", "idOfTypicalCourse1"))

	require.Len(t, rec.requests, 2)
	assert.Equal(t, http.MethodDelete, rec.requests[0].Method)
	assert.Equal(t, "/webapi/students", rec.requests[0].Path)
	assert.Equal(t, url.Values{"studentid": {"unreg.user"}}, rec.requests[0].Query)

	assert.Equal(t, "/webapi/session", rec.requests[1].Path)
	assert.Equal(t, "First feedback session", rec.requests[1].Query.Get("fsname"))
	assert.Equal(t, "idOfTypicalCourse1", rec.requests[1].Query.Get("courseid"))
}

func TestGetCourseDecodesEnvelope(t *testing.T) {
	client, rec := newTestClient(t)
	rec.body["GET /webapi/course"] = `{"data":{"courseId":"idOfTypicalCourse1","courseName":"Typical Course 1","timeZone":"UTC","deletionTimestamp":1700000000000}}`

	course, err := client.GetCourse(context.Background(), "idOfTypicalCourse1")
	require.NoError(t, err)
	assert.Equal(t, "Typical Course 1", course.CourseName)
	assert.EqualValues(t, 1700000000000, course.DeletionTimestamp)
}

func TestGetCourseSurfacesServerError(t *testing.T) {
	client, rec := newTestClient(t)
	rec.status["GET /webapi/course"] = http.StatusNotFound
	rec.body["GET /webapi/course"] = `{"error":{"code":"ENTITY_NOT_FOUND","message":"Trying to update a Course that doesn't exist: ","status":404}}`

	_, err := client.GetCourse(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrEntityNotFound.Code))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := New(Config{BaseURL: baseURL, Timeout: time.Second}, nil)
	_, err := client.ExecuteGetRequest(context.Background(), "/course", nil)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTransport.Code))

	status, err := client.RemoveAndRestoreDataBundle(context.Background(), typicalBundle())
	require.Error(t, err)
	assert.Equal(t, StatusFailure, status)
}

func TestUnknownMethodRejected(t *testing.T) {
	client, rec := newTestClient(t)
	_, err := client.execute(context.Background(), Method("PATCH"), "/course", nil, nil)
	require.Error(t, err)
	assert.Empty(t, rec.requests)
}
