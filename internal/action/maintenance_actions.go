package action

import (
	"context"
	"net/http"

	"github.com/noah-isme/course-feedback-api/internal/dto"
	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// PersistDataBundle upserts a bundle of test entities.
type PersistDataBundle struct {
	deps   Deps
	gate   gateKeeper
	bundle models.DataBundle
}

// NewPersistDataBundle builds the action.
func NewPersistDataBundle(deps Deps) Action {
	return &PersistDataBundle{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *PersistDataBundle) AuthType() AuthType { return AuthLoggedIn }

func (a *PersistDataBundle) Validate(req *Request) error { return req.DecodeBody(&a.bundle) }

func (a *PersistDataBundle) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

// Execute godoc
// @Summary Persist a data bundle
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param payload body models.DataBundle true "Entities to persist"
// @Success 200 {object} dto.MessageOutput
// @Security BackdoorKey
// @Security CSRFKey
// @Router /databundle [post]
func (a *PersistDataBundle) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if err := a.deps.Logic.PersistDataBundle(ctx, &a.bundle); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: "Data persisted successfully."}}, nil
}

// RemoveDataBundle deletes the entities a bundle names. Absent entities are ignored.
type RemoveDataBundle struct {
	deps   Deps
	gate   gateKeeper
	bundle models.DataBundle
}

// NewRemoveDataBundle builds the action.
func NewRemoveDataBundle(deps Deps) Action {
	return &RemoveDataBundle{deps: deps, gate: gateKeeper{logic: deps.Logic}}
}

func (a *RemoveDataBundle) AuthType() AuthType { return AuthLoggedIn }

func (a *RemoveDataBundle) Validate(req *Request) error { return req.DecodeBody(&a.bundle) }

func (a *RemoveDataBundle) CheckAccess(ctx context.Context, user UserInfo) error {
	return a.gate.verifyAdmin(user)
}

// Execute godoc
// @Summary Remove a data bundle
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param payload body models.DataBundle true "Entities to remove"
// @Success 200 {object} dto.MessageOutput
// @Security BackdoorKey
// @Security CSRFKey
// @Router /databundle [put]
func (a *RemoveDataBundle) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if err := a.deps.Logic.RemoveDataBundle(ctx, &a.bundle); err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: dto.MessageOutput{Message: "Data removed successfully."}}, nil
}

// DevLogin issues an identity token for local development.
type DevLogin struct {
	deps Deps
	req  models.DevLoginRequest
}

// NewDevLogin builds the action.
func NewDevLogin(deps Deps) Action {
	return &DevLogin{deps: deps}
}

func (a *DevLogin) AuthType() AuthType { return AuthPublic }

func (a *DevLogin) Validate(req *Request) error { return req.DecodeBody(&a.req) }

func (a *DevLogin) CheckAccess(ctx context.Context, user UserInfo) error { return nil }

// Execute godoc
// @Summary Issue a development identity token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.DevLoginRequest true "Identity"
// @Success 200 {object} models.LoginResponse
// @Failure 403 {object} appErrors.Error
// @Router /auth/dev-login [post]
func (a *DevLogin) Execute(ctx context.Context, user UserInfo) (*Result, error) {
	if a.deps.Auth == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "dev login is disabled")
	}
	resp, err := a.deps.Auth.DevLogin(ctx, a.req)
	if err != nil {
		return nil, err
	}
	return &Result{Status: http.StatusOK, Output: resp}, nil
}
