package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Upload / extraction ───────────────────────────────────────────
	ErrFileRequired        ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge        ErrCode = "FILE_TOO_LARGE"
	ErrUnsupportedFormat   ErrCode = "UNSUPPORTED_FORMAT"
	ErrInsufficientContent ErrCode = "INSUFFICIENT_CONTENT"
	ErrCorruptDocument     ErrCode = "CORRUPT_DOCUMENT"

	// ─── Generation ────────────────────────────────────────────────────
	ErrGenerationEmpty       ErrCode = "GENERATION_EMPTY"
	ErrGenerationMalformed   ErrCode = "GENERATION_MALFORMED"
	ErrGenerationUnavailable ErrCode = "GENERATION_UNAVAILABLE"

	// ─── Session / quiz ────────────────────────────────────────────────
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrNoActiveInstance ErrCode = "NO_ACTIVE_INSTANCE"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"
	ErrResultNotFound   ErrCode = "RESULT_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Upload / extraction ───────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "The uploaded file exceeds the size limit."
	case ErrUnsupportedFormat:
		return "Unsupported document format. Upload a PDF, Word, or PowerPoint file."
	case ErrInsufficientContent:
		return "The document does not contain enough readable text to build a quiz."
	case ErrCorruptDocument:
		return "The document could not be read. It may be corrupt or password protected."

	// ─── Generation ────────────────────────────────────────────────────
	case ErrGenerationEmpty:
		return "No valid questions could be generated from this document."
	case ErrGenerationMalformed:
		return "The question generator returned an unreadable response. Please try again."
	case ErrGenerationUnavailable:
		return "The question generator is temporarily unavailable. Please try again shortly."

	// ─── Session / quiz ────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "Quiz session not found or expired. Upload the document again."
	case ErrNoActiveInstance:
		return "No quiz has been started for this session."
	case ErrAlreadySubmitted:
		return "This quiz has already been submitted."
	case ErrResultNotFound:
		return "Quiz result not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
