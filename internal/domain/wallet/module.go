package wallet

import (
	"shop_trade/internal/domain/wallet/handler"
	"shop_trade/internal/domain/wallet/repository"
	"shop_trade/internal/domain/wallet/service"
	"shop_trade/internal/pkg/middleware"
	"shop_trade/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// WalletModule 钱包模块
type WalletModule struct{}

func init() {
	registry.Register(&WalletModule{})
}

func (m *WalletModule) Name() string {
	return "wallet"
}

func (m *WalletModule) Priority() int {
	return 5
}

func (m *WalletModule) Init(ctx *registry.ModuleContext) error {
	walletRepo := repository.NewWalletRepository(ctx.DB)
	walletService := service.NewWalletService(walletRepo)
	walletHandler := handler.NewWalletHandler(walletService)

	setupRoutes(ctx.Router, walletHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WalletHandler) {
	g := r.Group("/wallet")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.GetWallet)
	}

	admin := r.Group("/wallet/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/recharge", h.Recharge)
	}
}
