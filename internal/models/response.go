package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PageResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	TotalPages int         `json:"total_pages"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

func NewPageResponse(data interface{}, totalPages int) PageResponse {
	return PageResponse{
		Success:    true,
		Data:       data,
		TotalPages: totalPages,
	}
}
