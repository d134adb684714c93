package handler

import (
	"errors"
	"net/http"
	"strings"

	"contact_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
// 成功: {success: true, data[, meta]} 或 {success: true, message}
// 失败: {success: false, code, message}
type ResponseData struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// HandleSuccess 返回 200 和数据
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseData{Success: true, Data: data})
}

// HandleCreated 返回 201 和新建的数据
func HandleCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, ResponseData{Success: true, Data: data})
}

// HandlePage 返回分页数据
func HandlePage(c *gin.Context, data any, meta any) {
	c.JSON(http.StatusOK, ResponseData{Success: true, Data: data, Meta: meta})
}

// HandleMessage 返回只有提示信息的成功响应
func HandleMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, ResponseData{Success: true, Message: msg})
}

// HandleError 通用错误处理方法
// errorx.CodeError 按错误码映射 HTTP 状态码，其他错误记录日志并返回服务繁忙
//
//	if err := svc.DoSomething(); err != nil {
//	    HandleError(c, err)
//	    return
//	}
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		c.JSON(errorx.HTTPStatus(codeErr.Code), ResponseData{
			Code:    codeErr.Code,
			Message: codeErr.Msg,
		})
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ResponseData{
		Code:    errorx.ErrServerBusy.Code,
		Message: errorx.ErrServerBusy.Msg,
	})
}

// HandleParamError 处理参数绑定错误，validator 错误会被翻译
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		fields := RemoveTopStruct(validationErrs.Translate(Trans))
		msgs := make([]string, 0, len(fields))
		for _, msg := range fields {
			msgs = append(msgs, msg)
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    errorx.CodeInvalidParam,
			"message": strings.Join(msgs, "; "),
			"errors":  fields,
		})
		return
	}

	// 非 validator 错误（如 JSON 格式错误、数字解析失败）
	zap.L().Debug("param bind error", zap.Error(err))
	c.JSON(http.StatusBadRequest, ResponseData{
		Code:    errorx.ErrInvalidParam.Code,
		Message: errorx.ErrInvalidParam.Msg,
	})
}
