package response

import (
	"errors"
	"net/http"
)

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2

	// 未登录或会话无效
	Unauthorized ResponseCode = 40100
	// 已登录但无权限（非作者 / 非管理员）
	Forbidden ResponseCode = 40300
	// 目标不存在
	NotFound ResponseCode = 40400
	// 状态前置条件不满足
	InvalidState ResponseCode = 40900
	// 服务内部错误
	Internal ResponseCode = 50000
)

// HTTPStatus 业务错误码对应的 HTTP 状态码
func (c ResponseCode) HTTPStatus() int {
	switch c {
	case ParseError, InvalidParameter:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// New 以错误码和消息快速构造业务错误
func New(code ResponseCode, msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(code), WithErrorMessage(msg))
}

// CodeOf 取出错误链上的业务错误码，非业务错误返回 Internal
func CodeOf(err error) ResponseCode {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return Internal
}

// IsCode 判断错误链上是否为指定业务错误码
func IsCode(err error, code ResponseCode) bool {
	return err != nil && CodeOf(err) == code
}
