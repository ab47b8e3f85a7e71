package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Index documents the available endpoints.
func (s *Server) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"name":        "connectlog",
		"description": "Garmin Connect health data for PEM threshold research",
		"endpoints": map[string]any{
			"/api/summary": map[string]string{
				"method":      "GET",
				"parameters":  "months (default " + strconv.Itoa(s.defaultMonths) + ")",
				"description": "Daily health summaries for the period",
			},
			"/api/activities": map[string]string{
				"method":      "GET",
				"parameters":  "months (default " + strconv.Itoa(s.defaultMonths) + ")",
				"description": "Activities with labeled HR zone distributions",
			},
			"/api/readiness": map[string]string{
				"method":      "GET",
				"parameters":  "energy (optional, 1-10)",
				"description": "Readiness-to-train verdict from the latest metrics",
			},
		},
	})
}

// GetSummary serves the aggregated daily summaries.
func (s *Server) GetSummary(c echo.Context) error {
	months, err := s.months(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	resp, err := s.svc.Summary(c.Request().Context(), months)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetActivities serves the labeled activity records.
func (s *Server) GetActivities(c echo.Context) error {
	months, err := s.months(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	resp, err := s.svc.Activities(c.Request().Context(), months)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetReadiness serves the readiness verdict, optionally folding in a
// subjective energy score.
func (s *Server) GetReadiness(c echo.Context) error {
	var energy *int
	if raw := c.QueryParam("energy"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 10 {
			return jsonError(c, http.StatusBadRequest, fmt.Errorf("energy must be an integer between 1 and 10, got %q", raw))
		}
		energy = &v
	}

	verdict, err := s.svc.Readiness(c.Request().Context(), energy)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, verdict)
}

func (s *Server) months(c echo.Context) (int, error) {
	raw := c.QueryParam("months")
	if raw == "" {
		return s.defaultMonths, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 {
		return 0, fmt.Errorf("months must be a positive integer, got %q", raw)
	}
	return months, nil
}

func jsonError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}
