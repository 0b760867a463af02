package handler

import (
	"Courier/internal/pkg/response"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationSvc service.ConversationService
}

func NewConversationHandler(conversationSvc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationSvc: conversationSvc,
	}
}

// GetInbox 收件箱：每个联系人一行，附带发送号码列表
func (s *ConversationHandler) GetInbox(c *gin.Context) {
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.conversationSvc.GetInbox(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetTimeline 单个联系人的消息分页
func (s *ConversationHandler) GetTimeline(c *gin.Context) {
	contactID, err := pathID(c, "contact_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.conversationSvc.GetTimeline(c.Request.Context(), q, contactID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
