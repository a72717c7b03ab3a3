package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imishinist/hparams-inspector/internal/errs"
	"github.com/imishinist/hparams-inspector/internal/models"
)

// GetExperimentRequest is the body of /experiment.
type GetExperimentRequest struct {
	ExperimentName string `json:"experimentName"`
}

// GroupRequest names a session group.
type GroupRequest struct {
	Name string `json:"name"`
}

type CommentUpdateRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Done  bool   `json:"done"`
}

type ValueResponse struct {
	Value string `json:"value"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleExperiment(c echo.Context) error {
	var req GetExperimentRequest
	if err := parseRequestArgument(c, &req); err != nil {
		return err
	}

	exp, _, err := s.experiments.GetExperiment(c.Request().Context(), req.ExperimentName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exp)
}

func (s *Server) handleCommentGet(c echo.Context) error {
	var req GroupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	comment, err := s.annotations.Get(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (s *Server) handleCommentUpdate(c echo.Context) error {
	var req CommentUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	err := s.annotations.Set(c.Request().Context(), req.Name, models.Comment{Value: req.Value, Done: req.Done})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, struct{}{})
}

func (s *Server) handleRunInfo(c echo.Context) error {
	var req GroupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	info, err := s.freshness.Resolve(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return writeJSONUnescaped(c, http.StatusOK, ValueResponse{Value: info.Display()})
}

// writeJSONUnescaped keeps the markup in display strings as written.
func writeJSONUnescaped(c echo.Context, code int, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(code)
	encoder := json.NewEncoder(c.Response())
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// parseRequestArgument reads a POST body, or for other methods the JSON
// encoded "request" query argument.
func parseRequestArgument(c echo.Context, v any) error {
	if c.Request().Method == http.MethodPost {
		return bindJSON(c, v)
	}

	raw := c.QueryParam("request")
	if raw == "" {
		return fmt.Errorf("%w: expected a JSON-formatted 'request' arg of type %T", errs.ErrRequestFormat, v)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrRequestFormat, err)
	}
	return nil
}

func bindJSON(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errs.ErrRequestFormat, err)
	}
	return nil
}
