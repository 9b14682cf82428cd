// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package, calls
// the service layer and writes the response. Every endpoint runs through
// the same pipeline (handleRequest) so logging, New Relic attributes and
// timing look the same everywhere.
package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/middleware"
	"github.com/deppfellow/employee-api/internal/server"
	"github.com/deppfellow/employee-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is embedded by concrete handlers for access to the server.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint receiving a bound, validated request.
// Req is a pointer type so echo can bind into it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result and describes it for
// logging and tracing.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes result as JSON with a fixed status.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by EnhanceTracing.
}

// absent marks an optional result with no value.
type absent struct{}

// OptionalResponseHandler writes the value as JSON, or 404 with an empty
// body when the handler found nothing.
type OptionalResponseHandler struct {
	status int
}

func (h OptionalResponseHandler) Handle(c echo.Context, result interface{}) error {
	if _, missing := result.(absent); missing {
		return c.NoContent(http.StatusNotFound)
	}
	return c.JSON(h.status, result)
}

func (h OptionalResponseHandler) GetOperation() string {
	return "handler_optional"
}

func (h OptionalResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if result == nil {
		return
	}
	_, missing := result.(absent)
	txn.AddAttribute("result.found", !missing)
}

// TextResponseHandler writes a plain-text body.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result interface{}) error {
	text, _ := result.(string)
	return c.String(h.status, text)
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// tracePhase records a finished pipeline phase on txn as
// <phase>.status and <phase>.duration_ms, noticing err if any.
func tracePhase(txn *newrelic.Transaction, phase string, took time.Duration, err error) {
	if txn == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	txn.AddAttribute(phase+".status", status)
	txn.AddAttribute(phase+".duration_ms", took.Milliseconds())
}

// handleRequest is the shared pipeline: bind and validate, run the handler,
// log and trace each phase, then let responseHandler write the result.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	err := validation.BindAndValidate(c, req)
	validationDuration := time.Since(validationStart)
	tracePhase(txn, "validation", validationDuration, err)

	if err != nil {
		logger.Error().Err(err).Dur("validation_duration", validationDuration).Msg("request validation failed")
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)
	tracePhase(txn, "handler", handlerDuration, err)

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
	}

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")
		return err
	}

	if txn != nil {
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed JSON endpoint.
//
// newReq is called once per request so concurrent requests never share a
// payload:
//
//	Handle(h.Handler, h.createEmployee, http.StatusCreated, func() *model.CreateEmployeeRequest {
//		return &model.CreateEmployeeRequest{}
//	})
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleOptional wraps an endpoint whose result may be absent. A present
// value is written as JSON with status; an absent one as 404 with no body.
func HandleOptional[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, utils.Option[Res]],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			result, err := handler(c, req)
			if err != nil {
				return nil, err
			}
			if value, ok := result.Get(); ok {
				return value, nil
			}
			return absent{}, nil
		}, OptionalResponseHandler{status: status})
	}
}

// HandleText wraps an endpoint answering with a plain-text message.
func HandleText[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, string],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, TextResponseHandler{status: status})
	}
}
