package errors

import "net/http"

// HTTPStatusCode maps error codes to HTTP status codes
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeCrawler:
		return http.StatusInternalServerError
	case ErrCodeSerialization:
		return http.StatusInternalServerError
	case ErrCodeStore:
		return http.StatusInternalServerError
	case ErrCodeDirectory:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse represents the structure of error responses sent to clients
type HTTPErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusNames holds the client-facing error names per status code.
var statusNames = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Not Found",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusInternalServerError: "Internal Server Error",
}

// ToHTTPResponse converts an AppError to an HTTP error response
func (e *AppError) ToHTTPResponse() HTTPErrorResponse {
	name, ok := statusNames[e.HTTPStatusCode()]
	if !ok {
		name = "Internal Server Error"
	}
	return HTTPErrorResponse{
		Error:   name,
		Message: e.Message,
	}
}
