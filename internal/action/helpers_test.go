package action

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

func testDeps(logic *fakeLogic) Deps {
	return Deps{Logic: logic, Now: func() time.Time { return typicalNow }}
}

func userClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleUser}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: idOfAdmin, Role: models.RoleAdmin}
}

func backdoorClaims() *models.JWTClaims {
	return &models.JWTClaims{Role: models.RoleAdmin, Backdoor: true}
}

func newRequest(claims *models.JWTClaims, kv ...string) *Request {
	params := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		params.Set(kv[i], kv[i+1])
	}
	return &Request{Params: params, Claims: claims}
}

func run(t *testing.T, logic *fakeLogic, factory func(Deps) Action, req *Request) (*Result, error) {
	t.Helper()
	executor := NewExecutor(logic, nil, zap.NewNop())
	return executor.Execute(context.Background(), "test", factory(testDeps(logic)), req)
}

func requireStatus(t *testing.T, err error, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, status, appErr.Status, appErr.Message)
	return appErr
}
