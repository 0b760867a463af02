package handler

import (
	"Courier/internal/pkg/response"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignSvc service.CampaignService
}

func NewCampaignHandler(campaignSvc service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignSvc: campaignSvc,
	}
}

func (s *CampaignHandler) GetCampaigns(c *gin.Context) {
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.campaignSvc.GetCampaigns(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *CampaignHandler) GetCampaignReports(c *gin.Context) {
	campaignID, err := pathID(c, "campaign_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.campaignSvc.GetCampaignReports(c.Request.Context(), q, campaignID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
