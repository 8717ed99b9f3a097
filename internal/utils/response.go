package utils

import "github.com/gofiber/fiber/v2"

// ApiError is the single error shape every failure in the service is
// reported with. It implements error so service code can return it at
// the point of detection and let the Fiber error handler translate it.
type ApiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Data       any      `json:"data"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func (e *ApiError) Error() string { return e.Message }

func NewApiError(statusCode int, message string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     []string{},
	}
}

// WithErrors attaches field-level detail messages (validation output).
func (e *ApiError) WithErrors(errs []string) *ApiError {
	if len(errs) > 0 {
		e.Errors = errs
	}
	return e
}

// ApiResponse is the success envelope.
type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func JSONSuccess(c *fiber.Ctx, statusCode int, data any, message string) error {
	return c.Status(statusCode).JSON(ApiResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	})
}
