package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	res "seichi/cms/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func ErrorResponse(c *gin.Context, err *res.BusinessError) {
	c.JSON(err.Code.HTTPStatus(), res.ErrorResponse(err.Code, err.Msg))
}

// HandleError 统一处理 service 层返回的错误
// 业务错误按错误码映射状态码；其余错误记录日志后返回 500，不向调用方暴露细节
func HandleError(c *gin.Context, err error) {
	var be *res.BusinessError
	if errors.As(err, &be) && be.Code != res.Internal && be.Code != res.Fail {
		ErrorResponse(c, be)
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("请求处理失败")
	ErrorResponse(c, res.New(res.Internal, "internal server error"))
}

// ValidationErrorResponse 处理验证错误，返回友好的JSON字段名
func ValidationErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		firstErr := validationErrs[0]
		jsonField := getJSONFieldName(firstErr)

		var message string
		switch firstErr.Tag() {
		case "required":
			message = fmt.Sprintf("字段 '%s' 是必填项", jsonField)
		case "max":
			message = fmt.Sprintf("字段 '%s' 长度不能超过 %s", jsonField, firstErr.Param())
		case "min":
			message = fmt.Sprintf("字段 '%s' 长度不能少于 %s", jsonField, firstErr.Param())
		case "oneof":
			message = fmt.Sprintf("字段 '%s' 必须是以下值之一: %s", jsonField, firstErr.Param())
		default:
			message = fmt.Sprintf("字段 '%s' 验证失败: %s", jsonField, firstErr.Tag())
		}

		ErrorResponse(c, res.New(res.ParseError, message))
		return
	}

	ErrorResponse(c, res.New(res.ParseError, "参数错误: "+err.Error()))
}

// getJSONFieldName 获取字段的JSON标签名称
func getJSONFieldName(fe validator.FieldError) string {
	field := fe.StructNamespace()
	if parts := strings.Split(field, "."); len(parts) > 1 {
		return toSnakeCase(parts[len(parts)-1])
	}
	return toSnakeCase(fe.Field())
}

// toSnakeCase 将PascalCase转换为snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Pagination 解析分页参数，page 默认 1，pageSize 默认 20、上限 100
func Pagination(c *gin.Context) (page, pageSize int) {
	_, _ = fmt.Sscan(c.DefaultQuery("page", "1"), &page)
	_, _ = fmt.Sscan(c.DefaultQuery("pageSize", "20"), &pageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
