package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/api/validation"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
	"pathlight-utils/pkg/utils"
)

var analyzerValidator = validator.New()

func init() {
	// Register shared analyzer validators
	validation.RegisterAnalyzerValidators(analyzerValidator)
}

// requestID pulls the request ID set by middleware, generating one as a
// fallback for direct handler invocations
func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}

// errorResponse maps pipeline errors onto the HTTP error taxonomy
func errorResponse(c echo.Context, reqID string, err error) error {
	var ce *utils.CustomError
	var code string

	switch {
	case errors.Is(err, analyzer.ErrInvalidInput):
		ce = utils.NewInvalidInputError(err.Error())
		code = "invalid_input"
	case errors.Is(err, analyzer.ErrExtractionFailed):
		ce = utils.NewExtractionFailedError(err.Error())
		code = "extraction_failed"
	case errors.Is(err, analyzer.ErrMissingSource):
		ce = utils.NewMissingSourceError(err.Error())
		code = "missing_source"
	case errors.Is(err, analyzer.ErrNotFound):
		ce = utils.NewNotFoundError(err.Error())
		code = "not_found"
	case errors.Is(err, analyzer.ErrPersistenceFailed):
		ce = utils.NewPersistenceFailedError(err.Error())
		code = "persistence_failed"
	default:
		ce = utils.NewInternalServerError(err.Error())
		code = "internal_error"
	}

	return c.JSON(ce.Code, models.ErrorResponse{
		Error:     code,
		Message:   ce.Error(),
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}

// badRequestResponse reports a request rejected before reaching the service
func badRequestResponse(c echo.Context, reqID, code string, ce *utils.CustomError) error {
	return c.JSON(ce.Code, models.ErrorResponse{
		Error:     code,
		Message:   ce.Error(),
		RequestID: reqID,
		Timestamp: time.Now(),
	})
}

// AnalyzeHandler handles the POST /api/v1/analyzer/analyze endpoint
func AnalyzeHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing job description analysis request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/analyzer/analyze",
			"method":     "POST",
		})

		var req models.AnalyzeRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to parse request body", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return badRequestResponse(c, reqID, "invalid_request", utils.NewBadRequestError("Invalid request body: "+err.Error()))
		}

		if err := analyzerValidator.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		result, err := svc.Analyze(c.Request().Context(), &req)
		if err != nil {
			logger.Error("Analysis failed", map[string]interface{}{
				"request_id": reqID,
				"user_id":    req.UserID,
				"error":      err.Error(),
			})
			return errorResponse(c, reqID, err)
		}

		response := models.AnalyzeResponse{
			Success:    true,
			AnalysisID: result.Analysis.ID,
			Keywords:   result.Analysis.Keywords,
			MatchScore: result.Analysis.MatchScore,
			Degraded:   result.Degraded,
			Saved:      result.Saved,
			RequestID:  reqID,
			Timestamp:  time.Now(),
		}
		var warnings []string
		if result.Degraded {
			warnings = append(warnings, "Semantic matching was unavailable; score reflects exact matches only")
		}
		if !result.Saved {
			warnings = append(warnings, "Analysis could not be saved; results are not persisted")
		}
		response.Warning = strings.Join(warnings, ". ")

		return c.JSON(http.StatusOK, response)
	}
}

// AddKeywordHandler handles the POST /api/v1/analyzer/keywords endpoint
func AddKeywordHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		var req models.AddKeywordRequest
		if err := c.Bind(&req); err != nil {
			return badRequestResponse(c, reqID, "invalid_request", utils.NewBadRequestError("Invalid request body: "+err.Error()))
		}

		if err := analyzerValidator.Struct(&req); err != nil {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		result, err := svc.AddKeyword(c.Request().Context(), &req)
		if err != nil {
			logger.Error("Keyword addition failed", map[string]interface{}{
				"request_id":  reqID,
				"analysis_id": req.AnalysisID,
				"error":       err.Error(),
			})
			return errorResponse(c, reqID, err)
		}

		response := models.AnalyzeResponse{
			Success:    true,
			AnalysisID: result.Analysis.ID,
			Keywords:   result.Analysis.Keywords,
			MatchScore: result.Analysis.MatchScore,
			Saved:      result.Saved,
			RequestID:  reqID,
			Timestamp:  time.Now(),
		}
		if !result.Saved {
			response.Warning = "Analysis could not be saved; results are not persisted"
		}

		return c.JSON(http.StatusOK, response)
	}
}

// GetAnalysisHandler handles the GET /api/v1/analyzer/analyses/:id endpoint
func GetAnalysisHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		userID := c.QueryParam("user_id")
		if !validation.UserIDPattern.MatchString(userID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("user_id query parameter is required"))
		}

		analysisID := c.Param("id")
		if !validation.AnalysisIDPattern.MatchString(analysisID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("invalid analysis id"))
		}

		analysis, err := svc.GetAnalysis(c.Request().Context(), userID, analysisID)
		if err != nil {
			return errorResponse(c, reqID, err)
		}

		return c.JSON(http.StatusOK, analysis)
	}
}

// ListAnalysesHandler handles the GET /api/v1/analyzer/analyses endpoint
func ListAnalysesHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		userID := c.QueryParam("user_id")
		if !validation.UserIDPattern.MatchString(userID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("user_id query parameter is required"))
		}

		analyses, err := svc.ListAnalyses(c.Request().Context(), userID)
		if err != nil {
			return errorResponse(c, reqID, err)
		}

		return c.JSON(http.StatusOK, models.AnalysisListResponse{
			Success:  true,
			Analyses: analyses,
			Count:    len(analyses),
		})
	}
}
