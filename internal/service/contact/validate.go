package contact

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"contact_server/pkg/errorx"

	"github.com/go-playground/validator/v10"
)

// newValidator 复用 DTO 上的 binding 标签，HTTP 层与 Service 层校验规则一致
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError 把校验失败转换为 CodeInvalidParam，消息只描述第一个失败字段
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "invalid contact fields")
	}
	fe := errs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "email":
		msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return errorx.Wrap(err, errorx.CodeInvalidParam, msg)
}
