package http_server

import (
	"context"
	"net/http"
	"time"

	"github.com/quiverdb/quiver/qerr"
	"github.com/quiverdb/quiver/server"
)

type (
	PlanResBody struct {
		Handle string `json:"handle"`
	}

	QueryResBody struct {
		Handle     string   `json:"handle"`
		Result     string   `json:"result"`
		Columns    []string `json:"columns"`
		Rows       int      `json:"rows"`
		Partitions int      `json:"partitions"`
	}

	ExplainResBody struct {
		Handle string `json:"handle"`
		Mode   string `json:"mode"`
		Plan   string `json:"plan"`
	}
)

// PlanHandler builds a logical plan without executing it, so the caller
// can inspect the plan before deciding to run it.
func (s *HTTPServer) PlanHandler(c *CustomContext) error {
	var reqBody server.QueryRequest
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	handle, err := s.Engine.PlanQuery(reqBody)
	if err != nil {
		return s.queryError(c, err, "error planning query")
	}
	return c.JSON(http.StatusOK, PlanResBody{Handle: handle})
}

// QueryHandler plans and executes a join in one call.
func (s *HTTPServer) QueryHandler(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*60)
	defer cancel()

	var reqBody server.QueryRequest
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	handle, result, err := s.Engine.Query(ctx, reqBody)
	if err != nil {
		return s.queryError(c, err, "error executing query")
	}

	return c.JSON(http.StatusOK, QueryResBody{
		Handle:     handle,
		Result:     result.Name(),
		Columns:    result.Schema().Fields(),
		Rows:       result.NumRows(),
		Partitions: result.PartitionCount(),
	})
}

// ExecuteHandler runs a previously planned query.
func (s *HTTPServer) ExecuteHandler(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*60)
	defer cancel()

	handle := c.Param("handle")
	result, err := s.Engine.ExecuteQuery(ctx, handle)
	if err != nil {
		return s.queryError(c, err, "error executing query")
	}

	return c.JSON(http.StatusOK, QueryResBody{
		Handle:     handle,
		Result:     result.Name(),
		Columns:    result.Schema().Fields(),
		Rows:       result.NumRows(),
		Partitions: result.PartitionCount(),
	})
}

// ExplainHandler renders the plan tree(s) of a query in the requested
// mode (logical, physical, or both; default logical).
func (s *HTTPServer) ExplainHandler(c *CustomContext) error {
	handle := c.Param("handle")
	mode := c.QueryParam("mode")
	if mode == "" {
		mode = "logical"
	}

	rendered, err := s.Engine.Explain(handle, mode)
	if err != nil {
		return s.queryError(c, err, "error explaining query")
	}
	return c.JSON(http.StatusOK, ExplainResBody{Handle: handle, Mode: mode, Plan: rendered})
}

// queryError maps engine error kinds onto HTTP statuses: planning-time
// failures are the caller's fault, execution-time failures are ours.
func (s *HTTPServer) queryError(c *CustomContext, err error, msg string) error {
	switch qerr.KindOf(err) {
	case qerr.InvalidArgument, qerr.SchemaError, qerr.ValidationError:
		return c.String(http.StatusBadRequest, err.Error())
	default:
		return c.InternalError(err, msg)
	}
}
