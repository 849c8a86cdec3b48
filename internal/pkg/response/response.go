package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`              // 业务错误码（0表示成功）
	Message string      `json:"message,omitempty"` // 提示信息
	Data    interface{} `json:"data"`              // 实际数据（可能为空对象 {}）
}

func write(c *gin.Context, status, code int, message string, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, apperrors.Success, "", data)
}

// Created 创建资源成功（201）
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, apperrors.Success, "", data)
}

// BadRequest 请求参数错误（400），通常来自 ShouldBind
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, apperrors.ErrInvalidParams, message, nil)
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, apperrors.ErrInternalServer, message, nil)
}

// ErrorWithCode 使用错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	write(c, apperrors.GetHTTPStatus(code), code, apperrors.FormatError(code, details...), nil)
}

// HandleError 统一错误处理（使用AppError）
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code := apperrors.ExtractCode(err)
	ErrorWithCode(c, code, apperrors.GetDetails(err))
}

// Abort 中间件中使用，写入错误并终止后续 handler
func Abort(c *gin.Context, code int, details ...string) {
	ErrorWithCode(c, code, details...)
	c.Abort()
}
