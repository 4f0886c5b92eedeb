package errors

// ErrorCode phân loại lỗi cho API responses và logging
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_FORBIDDEN

	// Live session errors
	ErrorCode_SESSION_NOT_FOUND
	ErrorCode_SESSION_ALREADY_OPEN
	ErrorCode_SESSION_CLOSED
	ErrorCode_SESSION_INVALID_STATE
	ErrorCode_FRAME_REJECTED

	// Detector errors
	ErrorCode_DETECTOR_UNAVAILABLE
	ErrorCode_DETECTOR_FAILED

	// Assessment errors
	ErrorCode_ASSESSMENT_NOT_FOUND
	ErrorCode_ASSESSMENT_IN_PROGRESS
	ErrorCode_EXTRACTION_FAILED
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_EMBEDDING_FAILED

	// Configuration errors
	ErrorCode_CONFIGURATION_INVALID
	ErrorCode_WEIGHTS_INVALID

	// Integration errors
	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED

	// Database errors
	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_DB_TRANSACTION_FAILED
	ErrorCode_DB_CONSTRAINT_VIOLATION

	ErrorCode_INVALID_PAYLOAD
	ErrorCode_PROCESSING_FAILED
	ErrorCode_HTTP_OK
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                    "UNSPECIFIED",
	ErrorCode_INTERNAL:                       "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:               "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                      "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                 "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:              "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                      "FORBIDDEN",
	ErrorCode_SESSION_NOT_FOUND:              "SESSION_NOT_FOUND",
	ErrorCode_SESSION_ALREADY_OPEN:           "SESSION_ALREADY_OPEN",
	ErrorCode_SESSION_CLOSED:                 "SESSION_CLOSED",
	ErrorCode_SESSION_INVALID_STATE:          "SESSION_INVALID_STATE",
	ErrorCode_FRAME_REJECTED:                 "FRAME_REJECTED",
	ErrorCode_DETECTOR_UNAVAILABLE:           "DETECTOR_UNAVAILABLE",
	ErrorCode_DETECTOR_FAILED:                "DETECTOR_FAILED",
	ErrorCode_ASSESSMENT_NOT_FOUND:           "ASSESSMENT_NOT_FOUND",
	ErrorCode_ASSESSMENT_IN_PROGRESS:         "ASSESSMENT_IN_PROGRESS",
	ErrorCode_EXTRACTION_FAILED:              "EXTRACTION_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:           "TRANSCRIPTION_FAILED",
	ErrorCode_EMBEDDING_FAILED:               "EMBEDDING_FAILED",
	ErrorCode_CONFIGURATION_INVALID:          "CONFIGURATION_INVALID",
	ErrorCode_WEIGHTS_INVALID:                "WEIGHTS_INVALID",
	ErrorCode_INTEGRATION_STORAGE_FAILED:     "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:       "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:           "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:          "DB_TRANSACTION_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION:        "DB_CONSTRAINT_VIOLATION",
	ErrorCode_INVALID_PAYLOAD:                "INVALID_PAYLOAD",
	ErrorCode_PROCESSING_FAILED:              "PROCESSING_FAILED",
	ErrorCode_HTTP_OK:                        "OK",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}
