package action

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/service"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// RoleResolver reports the course roles of an identity.
type RoleResolver interface {
	ResolveRoles(ctx context.Context, googleID string) (service.UserRoles, error)
}

// Executor drives actions through the lifecycle stages in order and stops at the first failure.
type Executor struct {
	roles   RoleResolver
	metrics *service.MetricsService
	logger  *zap.Logger
}

// NewExecutor constructs an Executor.
func NewExecutor(roles RoleResolver, metrics *service.MetricsService, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{roles: roles, metrics: metrics, logger: logger}
}

// Execute runs a through validation, authentication, authorization and execution.
func (e *Executor) Execute(ctx context.Context, name string, a Action, req *Request) (*Result, error) {
	start := time.Now()
	stage := StageReceived

	result, err := e.run(ctx, a, req, &stage)

	status := service.ActionStatusSuccess
	if err != nil {
		status = service.ActionStatusFailure
		e.logFailure(name, stage, err)
	}
	e.metrics.ObserveAction(name, string(stage), status, time.Since(start))
	return result, err
}

func (e *Executor) run(ctx context.Context, a Action, req *Request, stage *Stage) (*Result, error) {
	if req == nil {
		req = &Request{}
	}
	if err := a.Validate(req); err != nil {
		return nil, asInvalidParameters(err)
	}
	*stage = StageParametersValidated

	user, err := e.authenticate(ctx, a, req)
	if err != nil {
		return nil, err
	}
	*stage = StageAuthenticated

	if !user.Backdoor {
		if err := a.CheckAccess(ctx, user); err != nil {
			return nil, err
		}
	}
	*stage = StageAuthorized

	result, err := a.Execute(ctx, user)
	if err != nil {
		return nil, err
	}
	*stage = StageExecuted
	return result, nil
}

func (e *Executor) authenticate(ctx context.Context, a Action, req *Request) (UserInfo, error) {
	claims := req.Claims
	if claims == nil {
		if a.AuthType() == AuthPublic {
			return UserInfo{}, nil
		}
		return UserInfo{}, appErrors.Clone(appErrors.ErrUnauthorized, "login is required")
	}

	user := UserInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin(),
		Backdoor: claims.Backdoor,
	}

	target := req.Param(ParamUser)
	if target != "" && target != user.ID {
		if !user.IsAdmin {
			return UserInfo{}, appErrors.Clone(appErrors.ErrForbidden, "only administrators can masquerade")
		}
		user = UserInfo{ID: target, Masquerade: true, Backdoor: user.Backdoor}
	}

	if user.ID != "" && e.roles != nil {
		roles, err := e.roles.ResolveRoles(ctx, user.ID)
		if err != nil {
			return UserInfo{}, err
		}
		user.IsInstructor = roles.IsInstructor
		user.IsStudent = roles.IsStudent
	}
	return user, nil
}

func (e *Executor) logFailure(name string, stage Stage, err error) {
	appErr := appErrors.FromError(err)
	fields := []zap.Field{
		zap.String("action", name),
		zap.String("stage", string(stage)),
		zap.String("code", appErr.Code),
		zap.Int("status", appErr.Status),
	}
	switch {
	case appErr.Status >= http.StatusInternalServerError:
		e.logger.Error("action failed", append(fields, zap.Error(err))...)
	case appErr.Status == http.StatusUnauthorized || appErr.Status == http.StatusForbidden:
		e.logger.Warn("action denied", fields...)
	default:
		e.logger.Info("action rejected", append(fields, zap.String("message", appErr.Message))...)
	}
}

// asInvalidParameters keeps typed errors and classifies anything else raised by Validate as a 400.
func asInvalidParameters(err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, err.Error())
}
