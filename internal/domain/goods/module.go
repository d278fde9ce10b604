package goods

import (
	"shop_trade/internal/domain/goods/handler"
	"shop_trade/internal/domain/goods/repository"
	"shop_trade/internal/domain/goods/service"
	"shop_trade/internal/pkg/middleware"
	"shop_trade/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// GoodsModule 商品模块
type GoodsModule struct{}

func init() {
	registry.Register(&GoodsModule{})
}

func (m *GoodsModule) Name() string {
	return "goods"
}

func (m *GoodsModule) Priority() int {
	return 5
}

func (m *GoodsModule) Init(ctx *registry.ModuleContext) error {
	goodsRepo := repository.NewGoodsRepository(ctx.DB)
	goodsService := service.NewGoodsService(goodsRepo)
	goodsHandler := handler.NewGoodsHandler(goodsService)

	setupRoutes(ctx.Router, goodsHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.GoodsHandler) {
	g := r.Group("/goods")

	// 公开读接口
	g.GET("/:id", h.GetGoods)
	g.GET("", h.GetGoodsList)

	// 管理端接口
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateGoods)
	}
}
