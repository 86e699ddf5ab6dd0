package router

import (
	"servaan/internal/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	registerValidators()
}

// registerValidators 注册自定义校验规则
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// subdomain: 小写字母数字和中划线，不能以中划线开头结尾
	_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return services.ValidateSubdomain(fl.Field().String())
	})
}
