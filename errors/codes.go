package errors

// ErrorCode identifies a class of application error
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// Generic
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_INPUT    ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UPSTREAM_TIMEOUT ErrorCode = 1004

	// Meeting lifecycle
	ErrorCode_INVALID_TRANSITION ErrorCode = 2000

	// Transcript / AI pipeline
	ErrorCode_TRANSCRIPT_UNAVAILABLE ErrorCode = 3000
	ErrorCode_EXTRACTION_FAILED      ErrorCode = 3001
	ErrorCode_NO_TASKS_TO_MODIFY     ErrorCode = 3002
	ErrorCode_MODIFICATION_FAILED    ErrorCode = 3003

	// Storage
	ErrorCode_STORAGE_FAILURE ErrorCode = 4000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                "OK",
	ErrorCode_INTERNAL:               "INTERNAL",
	ErrorCode_INVALID_INPUT:          "INVALID_INPUT",
	ErrorCode_NOT_FOUND:              "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:         "ALREADY_EXISTS",
	ErrorCode_UPSTREAM_TIMEOUT:       "UPSTREAM_TIMEOUT",
	ErrorCode_INVALID_TRANSITION:     "INVALID_TRANSITION",
	ErrorCode_TRANSCRIPT_UNAVAILABLE: "TRANSCRIPT_UNAVAILABLE",
	ErrorCode_EXTRACTION_FAILED:      "EXTRACTION_FAILED",
	ErrorCode_NO_TASKS_TO_MODIFY:     "NO_TASKS_TO_MODIFY",
	ErrorCode_MODIFICATION_FAILED:    "MODIFICATION_FAILED",
	ErrorCode_STORAGE_FAILURE:        "STORAGE_FAILURE",
}

// String returns the canonical name for the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
