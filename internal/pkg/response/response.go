package response

import (
	"Courier/internal/api/dto"
	"Courier/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误，包装过的业务错误按 errors.Is 识别
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "参数错误")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	code, target := resolve(err)
	switch {
	case target == nil:
		log.ErrorContext(c.Request.Context(), "unexpected error", "err", err)
		Fail(c, InternalServerError, service.UnExpectedError.Error())
	case code == ServiceUnavailable:
		log.WarnContext(c.Request.Context(), "store unavailable", "err", err)
		Fail(c, code, "服务繁忙，请稍后重试")
	default:
		Fail(c, code, target.Error())
	}
}

func resolve(err error) (int, error) {
	if code, ok := service.ErrorMap[err]; ok {
		return code, err
	}
	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			return code, target
		}
	}
	return InternalServerError, nil
}
