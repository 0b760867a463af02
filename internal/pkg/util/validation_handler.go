package util

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateDTO 校验 DTO，保留 ValidationErrors 供统一错误处理识别
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return fmt.Errorf("字段 [%s] 校验失败，规则 [%s]: %w",
				firstError.Field(),
				firstError.Tag(),
				vErrs)
		}
		return err
	}
	return nil
}

// DropInvalidFields 校验 DTO，把未通过校验的字段重置为零值并返回对应的校验错误
// dto 必须是结构体指针
func DropInvalidFields(dto any) []validator.FieldError {
	var vErrs validator.ValidationErrors
	if err := validate.Struct(dto); !errors.As(err, &vErrs) {
		return nil
	}
	v := reflect.ValueOf(dto).Elem()
	dropped := make([]validator.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		field := v.FieldByName(fe.StructField())
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		field.Set(reflect.Zero(field.Type()))
		dropped = append(dropped, fe)
	}
	return dropped
}

// AtoiOr 解析整数，失败时返回 def
func AtoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
