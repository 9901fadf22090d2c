package database

import (
	"errors"
	"strings"

	"seichi/cms/packages/response"

	"gorm.io/gorm"
)

// IsDuplicateKey 唯一约束冲突
// 开启 TranslateError 后驱动会返回 gorm.ErrDuplicatedKey，文本匹配兜底未翻译的驱动
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsNotFound 记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// NotFoundOr 记录不存在时转为 NotFound 业务错误，其余原样返回
func NotFoundOr(err error, msg string) error {
	if IsNotFound(err) {
		return response.NewBusinessError(
			response.WithErrorCode(response.NotFound),
			response.WithErrorMessage(msg),
			response.WithError(err),
		)
	}
	return err
}
