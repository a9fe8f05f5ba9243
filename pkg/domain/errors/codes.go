package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeUnknown              Code = "UNKNOWN"               // Unknown error occurred
	CodeInternalError        Code = "INTERNAL_ERROR"        // Internal system error
	CodeValidationFailed     Code = "VALIDATION_FAILED"     // Input validation failed
	CodeInvalidParameter     Code = "INVALID_PARAMETER"     // Invalid parameter provided
	CodeMissingParameter     Code = "MISSING_PARAMETER"     // Required parameter missing
	CodeConfigurationInvalid Code = "CONFIGURATION_INVALID" // Configuration invalid
	CodeIoError              Code = "IO_ERROR"              // Input/output operation failed
	CodeNetworkError         Code = "NETWORK_ERROR"         // Network error
	CodeNetworkTimeout       Code = "NETWORK_TIMEOUT"       // Network operation timed out
	CodeTokenMissing         Code = "TOKEN_MISSING"         // Access token not configured
	CodeGraphAPIError        Code = "GRAPH_API_ERROR"       // Ads archive API returned an error
	CodeSnapshotFetchFailed  Code = "SNAPSHOT_FETCH_FAILED" // Ad snapshot page could not be fetched
	CodeSnapshotParseFailed  Code = "SNAPSHOT_PARSE_FAILED" // Ad snapshot page could not be parsed
	CodeSessionNotFound      Code = "SESSION_NOT_FOUND"     // Session not found
	CodeSessionExpired       Code = "SESSION_EXPIRED"       // Session has expired
	CodeToolNotFound         Code = "TOOL_NOT_FOUND"        // Tool not found
	CodeToolExecutionFailed  Code = "TOOL_EXECUTION_FAILED" // Tool execution failed
	CodeNotImplemented       Code = "NOT_IMPLEMENTED"       // Not implemented
	CodeResourceExhausted    Code = "RESOURCE_EXHAUSTED"    // Resource exhausted
)
