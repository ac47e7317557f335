package listview

import (
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes identifying each failure kind.
const (
	TextCodeNetwork    = "NETWORK_ERROR"
	TextCodeTimeout    = "TIMEOUT"
	TextCodeHTTPStatus = "HTTP_STATUS"
	TextCodeDecode     = "DECODE_ERROR"
	TextCodeMutation   = "MUTATION_FAILED"
	TextCodeValidation = "VALIDATION_FAILED"
)

const metaServerMessage = "server_message"

var (
	// ErrNoSelection is returned when a modal is opened without a selected record.
	ErrNoSelection = errors.New("listview: no record selected")
	// ErrRecordNotFound is returned when an id is not in the current snapshot.
	ErrRecordNotFound = errors.New("listview: record not found")
	// ErrNotEditing is returned when submitting outside the edit modal.
	ErrNotEditing = errors.New("listview: edit modal is not open")
	// ErrDeleteCancelled is returned when the user declines a delete.
	ErrDeleteCancelled = errors.New("listview: delete cancelled")
	// ErrOperationNotAllowed is returned when a view does not expose an operation.
	ErrOperationNotAllowed = errors.New("listview: operation not allowed for view")
	// ErrUnknownView is returned for kinds without a registered definition.
	ErrUnknownView = errors.New("listview: unknown view")
)

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error) *goerrors.Error {
	if err == nil {
		err = errors.New("network failure")
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "network request failed").
		WithTextCode(TextCodeNetwork)
}

// NewTimeoutError reports a request that exceeded its time budget.
func NewTimeoutError(budget time.Duration, err error) *goerrors.Error {
	msg := fmt.Sprintf("request timed out after %s", budget)
	if err == nil {
		return goerrors.New(msg, goerrors.CategoryExternal).WithTextCode(TextCodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, msg).WithTextCode(TextCodeTimeout)
}

// NewHTTPStatusError reports a non-2xx response to a fetch.
func NewHTTPStatusError(code int, serverMessage string) *goerrors.Error {
	e := goerrors.New(fmt.Sprintf("remote error %d", code), goerrors.HTTPStatusToCategory(code)).
		WithCode(code).
		WithTextCode(TextCodeHTTPStatus)
	if serverMessage != "" {
		e = e.WithMetadata(map[string]any{metaServerMessage: serverMessage})
	}
	return e
}

// NewDecodeError reports a malformed response body.
func NewDecodeError(err error) *goerrors.Error {
	if err == nil {
		err = errors.New("malformed body")
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "decode response").
		WithTextCode(TextCodeDecode)
}

// NewMutationError reports a rejected create, update or delete.
func NewMutationError(operation string, code int, serverMessage string) *goerrors.Error {
	msg := fmt.Sprintf("%s failed with status %d", operation, code)
	if serverMessage != "" {
		msg = serverMessage
	}
	return goerrors.New(msg, goerrors.HTTPStatusToCategory(code)).
		WithCode(code).
		WithTextCode(TextCodeMutation).
		WithMetadata(map[string]any{
			"operation":       operation,
			metaServerMessage: serverMessage,
		})
}

// NewValidationError reports client-side payload problems.
func NewValidationError(message string, fields ...goerrors.FieldError) *goerrors.Error {
	return goerrors.NewValidation(message, fields...).WithTextCode(TextCodeValidation)
}

func hasTextCode(err error, code string) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { return hasTextCode(err, TextCodeNetwork) }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return hasTextCode(err, TextCodeTimeout) }

// IsHTTPStatus reports whether err is a non-2xx fetch response.
func IsHTTPStatus(err error) bool { return hasTextCode(err, TextCodeHTTPStatus) }

// IsDecode reports whether err is a malformed body.
func IsDecode(err error) bool { return hasTextCode(err, TextCodeDecode) }

// IsMutation reports whether err is a rejected mutation.
func IsMutation(err error) bool { return hasTextCode(err, TextCodeMutation) }

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool { return hasTextCode(err, TextCodeValidation) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *goerrors.Error
	if goerrors.As(err, &e) {
		return e.Code
	}
	return 0
}

// ServerMessage returns the backend's message field carried by err, if any.
func ServerMessage(err error) string {
	var e *goerrors.Error
	if !goerrors.As(err, &e) || e.Metadata == nil {
		return ""
	}
	msg, _ := e.Metadata[metaServerMessage].(string)
	return msg
}

// UserMessage picks what to show the user: the server message when present,
// otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := ServerMessage(err); msg != "" {
		return msg
	}
	if IsValidation(err) {
		var e *goerrors.Error
		if goerrors.As(err, &e) && len(e.ValidationErrors) > 0 {
			return e.ValidationErrors.Error()
		}
	}
	if IsTimeout(err) {
		return "The server took too long to respond. Please try again."
	}
	return fallback
}
