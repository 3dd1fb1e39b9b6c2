package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"pathlight-utils/pkg/models"
)

// UserIDPattern restricts user IDs to safe tokens
var UserIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// AnalysisIDPattern validates analysis IDs with format: jda_ followed by alphanumeric chars, hyphens, and underscores
var AnalysisIDPattern = regexp.MustCompile(`^jda_[a-zA-Z0-9_-]{10,50}$`)

// TailoredResumeIDPattern validates tailored resume IDs with format: tlr_ followed by alphanumeric chars, hyphens, and underscores
var TailoredResumeIDPattern = regexp.MustCompile(`^tlr_[a-zA-Z0-9_-]{10,50}$`)

// ValidateUserID validates that the user ID is a safe token
func ValidateUserID(fl validator.FieldLevel) bool {
	return UserIDPattern.MatchString(fl.Field().String())
}

// ValidateAnalysisID validates that the analysis ID follows the expected format
func ValidateAnalysisID(fl validator.FieldLevel) bool {
	return AnalysisIDPattern.MatchString(fl.Field().String())
}

// ValidateTailoredResumeID validates that the tailored resume ID follows the expected format
func ValidateTailoredResumeID(fl validator.FieldLevel) bool {
	return TailoredResumeIDPattern.MatchString(fl.Field().String())
}

// ValidateTailoredStatus ensures the status is one of the known pipeline values
func ValidateTailoredStatus(fl validator.FieldLevel) bool {
	return models.TailoredResumeStatus(fl.Field().String()).IsValid()
}

// RegisterAnalyzerValidators registers all analyzer-related custom validators
func RegisterAnalyzerValidators(v *validator.Validate) {
	v.RegisterValidation("user_id", ValidateUserID)
	v.RegisterValidation("analysis_id", ValidateAnalysisID)
	v.RegisterValidation("tailored_id", ValidateTailoredResumeID)
	v.RegisterValidation("tailored_status", ValidateTailoredStatus)
}
