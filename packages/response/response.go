package response

type ResponseCode int

// ErrorBody 失败响应体
type ErrorBody struct {
	Error string       `json:"error"`
	Code  ResponseCode `json:"code"`
}

// OK 无数据的成功响应体
type OK struct {
	OK bool `json:"ok"`
}

// StatusBody 状态流转类接口的响应体
type StatusBody struct {
	Status string `json:"status"`
}

func ErrorResponse(code ResponseCode, msg string) ErrorBody {
	return ErrorBody{
		Error: msg,
		Code:  code,
	}
}

func StatusResponse(status string) StatusBody {
	return StatusBody{Status: status}
}
