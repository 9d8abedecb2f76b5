package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/paulare17/Sprint8-sub000/internal/domain/helper"
)

const postalCodeTag = "postalcode"

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators gin のバリデーターに独自ルールを登録する
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("バリデーターの取得に失敗")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = v.RegisterValidation(postalCodeTag, func(fl validator.FieldLevel) bool {
			return helper.IsValidPostalCode(fl.Field().String())
		})
	})
	return registerErr
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
