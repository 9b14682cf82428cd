// Package errs defines the error body every failed API call returns.
//
//	{
//	  "code": "EMPLOYEE_ALREADY_EXISTS",
//	  "message": "Employee with email ada@example.com already exists",
//	  "status": 409,
//	  "override": true,
//	  "errors": null,
//	  "action": null
//	}
//
// Services return *HTTPError values directly; the global error handler
// renders them and converts anything else through sqlerr.
package errs

import "strings"

// FieldError points at one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ActionType string

const ActionTypeRedirect ActionType = "redirect"

// Action is an optional hint telling the client what to do next. Nothing
// in the employee API sets one yet; the field is kept in the wire shape so
// clients can rely on it being present.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is an error with everything needed to answer the client.
//
// Override marks Message as safe to show to end users verbatim. Errors is
// filled for validation failures only.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is lets errors.Is match on Code. A target with an empty Code matches
// every *HTTPError, so both of these work:
//
//	errors.Is(err, service.ErrDuplicateEmail)
//	errors.Is(err, &errs.HTTPError{})
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a copy of e carrying message. e is not modified, so
// package-level sentinels can be specialised per call.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// MakeUpperCaseWithUnderscores turns status text into a code:
// "Too Many Requests" -> "TOO_MANY_REQUESTS".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
