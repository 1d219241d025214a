package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Core error taxonomy. Sentinels so callers can branch with errors.Is.
var (
	ErrNoEligibleModel = errors.New("no eligible model")
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrUnknownTestCase = errors.New("unknown test case")
	ErrBackendFailure  = errors.New("backend inference failure")
	ErrInvalidScore    = errors.New("score outside [0,1]")
)

// NoEligibleModelError names the task type no registered model could serve.
func NoEligibleModelError(task TaskType) error {
	return fmt.Errorf("%w for task type %q", ErrNoEligibleModel, task)
}

// UnknownTestCaseError is returned when a benchmark resolves zero test cases.
func UnknownTestCaseError(ids []string) error {
	return fmt.Errorf("%w: none of %v are registered", ErrUnknownTestCase, ids)
}

// BackendError wraps an upstream provider failure so it propagates unchanged
// to the caller of Infer while remaining matchable with errors.Is.
func BackendError(modelID string, err error) error {
	return fmt.Errorf("%w: model %s: %v", ErrBackendFailure, modelID, err)
}

// Problem implements RFC 9457 for the HTTP surface.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{})

	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, _ := json.Marshal(Alias(*p))
	_ = json.Unmarshal(stdJSON, &data)

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewProblem creates a generic Problem.
func NewProblem(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank", // Default as per RFC
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response.
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging.
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// Error defines a standard error shape for the API.
type Error struct {
	// HTTP Status Code (e.g., 400, 404, 500)
	Code int
	// Safe message for the client
	Message string
	// Original error for internal logging
	Log error
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationError creates a rich validation error.
func ValidationError(validationErrors map[string]string) *Problem {
	return NewProblem(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithExtension("errors", validationErrors),
	)
}

// BadRequestError creates a standard error for a bad request.
func BadRequestError(detail string, opts ...ProblemOption) *Problem {
	return NewProblem(http.StatusBadRequest, "Bad Request", detail, opts...)
}

// InternalError creates a standard error for any internal server error.
func InternalError(msg string, err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg, Log: err}
}

// NotFoundError creates a standard 404 error.
func NotFoundError(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

// UnauthorizedError creates a 401 unauthed error.
func UnauthorizedError(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

// GatewayError creates a 502 error for backend inference failures.
func GatewayError(msg string, err error) *Error {
	return &Error{Code: http.StatusBadGateway, Message: msg, Log: err}
}

// WrapError allows wrapping a standard error in an Error.
func WrapError(err error, code int, msg string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Log:     err,
	}
}
