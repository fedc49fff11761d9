package dto

// ErrorResponse is returned by every failing endpoint. Detail repeats the
// message for clients that read it from there.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// NewErrorResponse builds an error body.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Detail: message}
}
