package handler

import (
	"Courier/internal/api/middleware"
	"Courier/internal/pkg/response"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	channelSvc service.ChannelService
}

func NewChannelHandler(channelSvc service.ChannelService) *ChannelHandler {
	return &ChannelHandler{
		channelSvc: channelSvc,
	}
}

func (s *ChannelHandler) GetChannels(c *gin.Context) {
	channels, err := s.channelSvc.GetChannels(c.Request.Context(), c.GetUint64(middleware.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, channels)
}

// InvalidateOwn 号码变更后由前端触发，只清理当前账号
func (s *ChannelHandler) InvalidateOwn(c *gin.Context) {
	s.channelSvc.Invalidate(c.Request.Context(), c.GetUint64(middleware.UserIDKey))
	response.Success(c, nil)
}

func (s *ChannelHandler) ClearAll(c *gin.Context) {
	s.channelSvc.InvalidateAll(c.Request.Context())
	response.Success(c, nil)
}
