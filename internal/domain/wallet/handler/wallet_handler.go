package handler

import (
	"net/http"

	"shop_trade/internal/domain/wallet/service"
	"shop_trade/internal/pkg/middleware"
	"shop_trade/pkg/response"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(s service.WalletService) *WalletHandler {
	return &WalletHandler{service: s}
}

// GetWallet 查询当前用户钱包
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	wallet, err := h.service.GetWallet(userID)
	if err != nil {
		response.Fail(c, response.ErrWalletNotFound, "wallet not found")
		return
	}
	response.Success(c, wallet)
}

type RechargeInput struct {
	UserID     uint64 `json:"userId" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Currency   string `json:"currency" binding:"required,oneof=cash coin"`
	BusinessID string `json:"businessId" binding:"required"`
}

// Recharge 管理端充值
// BusinessID 作为幂等键的一部分，重复提交不会重复入账
func (h *WalletHandler) Recharge(c *gin.Context) {
	var input RechargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.Recharge(input.UserID, input.Amount, input.Currency, input.BusinessID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"userId":   input.UserID,
		"currency": input.Currency,
		"amount":   input.Amount,
	})
}
