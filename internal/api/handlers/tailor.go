package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pathlight-utils/internal/analyzer"
	"pathlight-utils/internal/api/validation"
	"pathlight-utils/internal/logging"
	"pathlight-utils/pkg/models"
	"pathlight-utils/pkg/utils"
)

// TailorHandler handles the POST /api/v1/resume/tailor endpoint
func TailorHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing resume tailoring request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   "/api/v1/resume/tailor",
			"method":     "POST",
		})

		var req models.TailorRequest
		if err := c.Bind(&req); err != nil {
			return badRequestResponse(c, reqID, "invalid_request", utils.NewBadRequestError("Invalid request body: "+err.Error()))
		}

		if err := analyzerValidator.Struct(&req); err != nil {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		result, err := svc.Tailor(c.Request().Context(), &req)
		if err != nil {
			logger.Error("Tailoring failed", map[string]interface{}{
				"request_id":  reqID,
				"analysis_id": req.AnalysisID,
				"error":       err.Error(),
			})
			return errorResponse(c, reqID, err)
		}

		response := models.TailorResponse{
			Success:   true,
			Resume:    result.Resume,
			Saved:     result.Saved,
			RequestID: reqID,
			Timestamp: time.Now(),
		}
		if !result.Saved {
			response.Warning = "Tailored resume could not be saved; results are not persisted"
		}

		return c.JSON(http.StatusOK, response)
	}
}

// StatusUpdateHandler handles the PATCH /api/v1/resume/tailored/:id/status endpoint
func StatusUpdateHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)
		logger := logging.GetGlobalLogger()

		resumeID := c.Param("id")
		if !validation.TailoredResumeIDPattern.MatchString(resumeID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("invalid tailored resume id"))
		}

		var req models.StatusUpdateRequest
		if err := c.Bind(&req); err != nil {
			return badRequestResponse(c, reqID, "invalid_request", utils.NewBadRequestError("Invalid request body: "+err.Error()))
		}

		if err := analyzerValidator.Struct(&req); err != nil {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError(err.Error()))
		}

		result, err := svc.UpdateStatus(c.Request().Context(), req.UserID, resumeID, &req)
		if err != nil {
			logger.Error("Status update failed", map[string]interface{}{
				"request_id": reqID,
				"resume_id":  resumeID,
				"error":      err.Error(),
			})
			return errorResponse(c, reqID, err)
		}

		response := models.TailorResponse{
			Success:   true,
			Resume:    result.Resume,
			Saved:     result.Saved,
			RequestID: reqID,
			Timestamp: time.Now(),
		}
		if !result.Saved {
			response.Warning = "Status update could not be saved; the change is not persisted"
		}

		return c.JSON(http.StatusOK, response)
	}
}

// GetTailoredHandler handles the GET /api/v1/resume/tailored/:id endpoint
func GetTailoredHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		userID := c.QueryParam("user_id")
		if !validation.UserIDPattern.MatchString(userID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("user_id query parameter is required"))
		}

		resumeID := c.Param("id")
		if !validation.TailoredResumeIDPattern.MatchString(resumeID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("invalid tailored resume id"))
		}

		resume, err := svc.GetTailoredResume(c.Request().Context(), userID, resumeID)
		if err != nil {
			return errorResponse(c, reqID, err)
		}

		return c.JSON(http.StatusOK, resume)
	}
}

// ListTailoredHandler handles the GET /api/v1/resume/tailored endpoint. An
// optional analysis_id query parameter narrows the listing to the resumes
// cut from that analysis.
func ListTailoredHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := requestID(c)

		userID := c.QueryParam("user_id")
		if !validation.UserIDPattern.MatchString(userID) {
			return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("user_id query parameter is required"))
		}

		var resumes []*models.TailoredResume
		var err error
		if analysisID := c.QueryParam("analysis_id"); analysisID != "" {
			if !validation.AnalysisIDPattern.MatchString(analysisID) {
				return badRequestResponse(c, reqID, "validation_failed", utils.NewValidationError("invalid analysis id"))
			}
			resumes, err = svc.ListTailoredByAnalysis(c.Request().Context(), userID, analysisID)
		} else {
			resumes, err = svc.ListTailoredResumes(c.Request().Context(), userID)
		}
		if err != nil {
			return errorResponse(c, reqID, err)
		}

		return c.JSON(http.StatusOK, models.TailoredListResponse{
			Success: true,
			Resumes: resumes,
			Count:   len(resumes),
		})
	}
}
