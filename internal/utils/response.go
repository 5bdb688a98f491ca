package utils

// ServerResponse is the envelope every endpoint renders
type ServerResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Status  int         `json:"status"`
}

// SuccessResponse builds a success envelope
func SuccessResponse(message string, data interface{}, status int) ServerResponse {
	return ServerResponse{Success: true, Message: message, Data: data, Status: status}
}

// ErrorResponse builds an error envelope
func ErrorResponse(message string, status int) ServerResponse {
	return ServerResponse{Success: false, Message: message, Status: status}
}
