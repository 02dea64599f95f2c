package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced in the response envelope. Clients branch on these,
// so they are part of the API contract.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeUnsupportedSource       = "UNSUPPORTED_SOURCE"
	CodeUnsupportedDocumentType = "UNSUPPORTED_DOCUMENT_TYPE"
	CodeUnsupportedSlideFormat  = "UNSUPPORTED_SLIDE_FORMAT"
	CodeEmptyContent            = "EMPTY_CONTENT"
	CodeInvalidURL              = "INVALID_URL"
	CodeTranscription           = "TRANSCRIPTION_FAILED"
	CodeTranscriptUnavailable   = "TRANSCRIPT_UNAVAILABLE"
	CodeSummarizationFailed     = "SUMMARIZATION_UNAVAILABLE"
	CodeQuotaExceeded           = "AI_QUOTA_EXCEEDED"
	CodeNotFound                = "NOT_FOUND"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeUnknown                 = "UNKNOWN_ERROR"
)

// FieldError describes a single offending input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AppError is the single error type the HTTP layer knows how to render.
// Adapters and services return it directly; everything else becomes a 500.
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errs    []FieldError `json:"errors,omitempty"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logs without changing what the
// client sees.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NewValidation(message string, errs ...FieldError) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message, Errs: errs}
}

func NewUnsupportedSource(sourceType string) *AppError {
	return New(fiber.StatusBadRequest, CodeUnsupportedSource,
		fmt.Sprintf("Unsupported source type %q", sourceType))
}

func NewUnsupportedDocumentType(mimeType string) *AppError {
	return New(fiber.StatusBadRequest, CodeUnsupportedDocumentType,
		fmt.Sprintf("Unsupported document type %q. Upload a PDF or Word file", mimeType))
}

func NewUnsupportedSlideFormat(extension string) *AppError {
	return New(fiber.StatusBadRequest, CodeUnsupportedSlideFormat,
		fmt.Sprintf("Unsupported slide format %q. Upload PDF or PPTX", extension))
}

func NewEmptyContent(message string) *AppError {
	return New(fiber.StatusBadRequest, CodeEmptyContent, message)
}

func NewInvalidURL(url string) *AppError {
	return New(fiber.StatusBadRequest, CodeInvalidURL,
		fmt.Sprintf("Invalid YouTube URL %q", url))
}

func NewTranscription(message string) *AppError {
	return New(fiber.StatusBadGateway, CodeTranscription, message)
}

func NewTranscriptUnavailable(videoID string) *AppError {
	return New(fiber.StatusBadGateway, CodeTranscriptUnavailable,
		fmt.Sprintf("No transcript could be produced for video %q", videoID))
}

func NewSummarizationUnavailable(message string) *AppError {
	return New(fiber.StatusBadGateway, CodeSummarizationFailed, message)
}

func NewQuotaExceeded() *AppError {
	return New(fiber.StatusServiceUnavailable, CodeQuotaExceeded,
		"AI quota exceeded. Try again later")
}

func NewNotFound(resource string) *AppError {
	return New(fiber.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func NewUnauthorized(message string) *AppError {
	return New(fiber.StatusUnauthorized, CodeUnauthorized, message)
}
