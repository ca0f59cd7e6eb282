package dto

import "time"

// ErrorResponse is the standardized JSON error body returned by every endpoint.
type ErrorResponse struct {
	Message      string    `json:"message" example:"model_id is required"`
	ErrorDetails string    `json:"error,omitempty" example:"strconv.ParseInt: parsing \"abc\": invalid syntax"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface so responses can travel through c.Error.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
