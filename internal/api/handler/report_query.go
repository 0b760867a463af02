package handler

import (
	"Courier/internal/api/dto"
	"Courier/internal/api/middleware"
	"Courier/internal/pkg/util"
	"Courier/internal/service"
	"fmt"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// bindReportQuery 解析报表查询参数，账号取自鉴权结果
// 除账号外的参数不会导致请求失败：不合规的字段被丢弃并记录告警
func bindReportQuery(c *gin.Context) (service.ReportQuery, error) {
	var queryDTO dto.ReportQueryDTO
	if err := c.ShouldBindQuery(&queryDTO); err != nil {
		return service.ReportQuery{}, fmt.Errorf("%w: %v", service.ErrParamInvalid, err)
	}
	for _, fe := range util.DropInvalidFields(&queryDTO) {
		log.WarnContext(c.Request.Context(), "invalid query param, ignored",
			"field", fe.Field(), "rule", fe.Tag(), "value", fe.Value())
	}

	return service.ReportQuery{
		OwnerID:  c.GetUint64(middleware.UserIDKey),
		Path:     middleware.PagePath(c),
		Search:   queryDTO.Search,
		Filter:   queryDTO.Filter,
		From:     queryDTO.From,
		To:       queryDTO.To,
		Page:     util.AtoiOr(queryDTO.Page, 0),
		PerPage:  util.AtoiOr(queryDTO.PerPage, 0),
		Platform: queryDTO.Type,
		State:    queryDTO.State,
		Status:   queryDTO.Status,
	}, nil
}

// pathID 解析路径参数中的 ID
func pathID(c *gin.Context, name string) (uint64, error) {
	id, ok := util.ParseID(c.Param(name))
	if !ok {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}
