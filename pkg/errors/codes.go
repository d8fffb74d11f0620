package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Reviewer validation module error codes.
const (
	ErrCodeRuleEvaluationFailed ErrorCode = "VAL_001"
	ErrCodeRulesInvalid         ErrorCode = "VAL_002"
)

// Profile analysis module error codes.
const (
	ErrCodeAuthorRequired        ErrorCode = "PRF_001"
	ErrCodeAuthorNotFound        ErrorCode = "PRF_002"
	ErrCodeProfileBuildFailed    ErrorCode = "PRF_003"
	ErrCodeNetworkAnalysisFailed ErrorCode = "PRF_004"
	ErrCodeConflictScanFailed    ErrorCode = "PRF_005"
)

// Enrichment collaborator error codes.
const (
	ErrCodeEnrichmentFailed      ErrorCode = "ENR_001"
	ErrCodeEnrichmentUnavailable ErrorCode = "ENR_002"
)

// Paper module error codes.
const (
	ErrCodePaperNotFound      ErrorCode = "PPR_001"
	ErrCodePaperAlreadyExists ErrorCode = "PPR_002"
)

// Data source error codes.
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeDataSourceAuthFailed  ErrorCode = "SRC_003"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_004"
)

// Short aliases used at call sites throughout the codebase.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")

	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeUnauthorized       = ErrCodeUnauthorized
	CodeForbidden          = ErrCodeForbidden
	CodeNotFound           = ErrCodeNotFound
	CodeConflict           = ErrCodeConflict
	CodeRateLimit          = ErrCodeTooManyRequests
	CodeServiceUnavailable = ErrCodeServiceUnavailable
	CodeTimeout            = ErrCodeTimeout
	CodeValidation         = ErrCodeValidation
	CodeSerialization      = ErrCodeSerialization
	CodeDatabaseError      = ErrCodeDatabaseError
	CodeCacheError         = ErrCodeCacheError
	CodeExternalService    = ErrCodeExternalService

	CodeAuthorRequired        = ErrCodeAuthorRequired
	CodeAuthorNotFound        = ErrCodeAuthorNotFound
	CodeProfileBuildFailed    = ErrCodeProfileBuildFailed
	CodeNetworkAnalysisFailed = ErrCodeNetworkAnalysisFailed
	CodeConflictScanFailed    = ErrCodeConflictScanFailed
	CodeEnrichmentFailed      = ErrCodeEnrichmentFailed
	CodePaperNotFound         = ErrCodePaperNotFound
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodeRuleEvaluationFailed: http.StatusInternalServerError,
	ErrCodeRulesInvalid:         http.StatusBadRequest,

	ErrCodeAuthorRequired:        http.StatusBadRequest,
	ErrCodeAuthorNotFound:        http.StatusNotFound,
	ErrCodeProfileBuildFailed:    http.StatusInternalServerError,
	ErrCodeNetworkAnalysisFailed: http.StatusInternalServerError,
	ErrCodeConflictScanFailed:    http.StatusInternalServerError,

	ErrCodeEnrichmentFailed:      http.StatusBadGateway,
	ErrCodeEnrichmentUnavailable: http.StatusServiceUnavailable,

	ErrCodePaperNotFound:      http.StatusNotFound,
	ErrCodePaperAlreadyExists: http.StatusConflict,

	ErrCodeDataSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeDataSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeDataSourceAuthFailed:  http.StatusBadGateway,
	ErrCodeDataSourceParseError:  http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeRuleEvaluationFailed: "exclusion rule evaluation failed",
	ErrCodeRulesInvalid:         "invalid validation rules",

	ErrCodeAuthorRequired:        "author is required",
	ErrCodeAuthorNotFound:        "author not found",
	ErrCodeProfileBuildFailed:    "profile analysis failed",
	ErrCodeNetworkAnalysisFailed: "network analysis failed",
	ErrCodeConflictScanFailed:    "conflict detection failed",

	ErrCodeEnrichmentFailed:      "author profile enrichment failed",
	ErrCodeEnrichmentUnavailable: "enrichment service unavailable",

	ErrCodePaperNotFound:      "paper not found",
	ErrCodePaperAlreadyExists: "paper already exists",

	ErrCodeDataSourceUnavailable: "data source unavailable",
	ErrCodeDataSourceRateLimited: "data source rate limited",
	ErrCodeDataSourceAuthFailed:  "data source authentication failed",
	ErrCodeDataSourceParseError:  "failed to parse data source response",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
