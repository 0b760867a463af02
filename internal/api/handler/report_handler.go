package handler

import (
	"Courier/internal/pkg/response"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportSvc: reportSvc,
	}
}

func (s *ReportHandler) GetDeliverySummary(c *gin.Context) {
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := s.reportSvc.GetDeliverySummary(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

func (s *ReportHandler) GetBilling(c *gin.Context) {
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := s.reportSvc.GetBilling(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
