package handler

import (
	"Courier/internal/pkg/response"
	"Courier/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvc service.WalletService
}

func NewWalletHandler(walletSvc service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletSvc: walletSvc,
	}
}

// GetTransactions type 在钱包流水中表示收支类型 debit/credit/refund
func (s *WalletHandler) GetTransactions(c *gin.Context) {
	q, err := bindReportQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	q.WalletType, q.Platform = q.Platform, ""

	page, err := s.walletSvc.GetTransactions(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
