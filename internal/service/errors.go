package service

import (
	"Courier/internal/repository"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrOwnerMissing     = errors.New("缺少账号标识")
	ErrContactNotFound  = errors.New("联系人不存在")
	ErrCampaignNotFound = errors.New("群发任务不存在")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:                BadRequest,
	ErrOwnerMissing:                BadRequest,
	ErrContactNotFound:             NotFound,
	ErrCampaignNotFound:            NotFound,
	UnauthorizedError:              Unauthorized,
	UnExpectedError:                InternalServerError,
	repository.ErrStoreUnavailable: ServiceUnavailable,
}
