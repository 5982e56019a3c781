package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-feedback-api/internal/action"
	"github.com/noah-isme/course-feedback-api/internal/middleware"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
	"github.com/noah-isme/course-feedback-api/pkg/response"
)

const maxBodyBytes = 10 << 20

// ActionHandler adapts gin requests to the action lifecycle.
type ActionHandler struct {
	executor *action.Executor
	deps     action.Deps
	routes   []action.Route
}

// NewActionHandler constructs an action handler serving the given routes.
func NewActionHandler(executor *action.Executor, deps action.Deps, routes []action.Route) *ActionHandler {
	return &ActionHandler{executor: executor, deps: deps, routes: routes}
}

// Register mounts every route on the group.
func (h *ActionHandler) Register(rg *gin.RouterGroup) {
	for _, route := range h.routes {
		rg.Handle(route.Method, route.Path, h.serve(route))
	}
}

func (h *ActionHandler) serve(route action.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := h.buildRequest(c)
		if err != nil {
			response.Error(c, err)
			return
		}

		result, err := h.executor.Execute(c.Request.Context(), route.Name, route.New(h.deps), req)
		if err != nil {
			response.Error(c, err)
			return
		}

		if result.File != nil {
			response.File(c, result.Status, result.File.Filename, result.File.ContentType, result.File.Data)
			return
		}
		response.JSON(c, result.Status, result.Output)
	}
}

func (h *ActionHandler) buildRequest(c *gin.Context) (*action.Request, error) {
	req := &action.Request{
		Params: c.Request.URL.Query(),
		Claims: middleware.ClaimsFromContext(c),
	}
	if c.Request.Body != nil {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "failed to read request body")
		}
		req.Body = body
	}
	return req, nil
}
