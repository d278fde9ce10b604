package handler

import (
	"net/http"
	"strconv"

	"shop_trade/internal/domain/goods/model"
	"shop_trade/internal/domain/goods/service"
	"shop_trade/pkg/response"
	"shop_trade/pkg/utils"

	"github.com/gin-gonic/gin"
)

type GoodsHandler struct {
	service service.GoodsService
}

func NewGoodsHandler(s service.GoodsService) *GoodsHandler {
	return &GoodsHandler{service: s}
}

type CreateGoodsInput struct {
	Name      string `json:"name" binding:"required"`
	GoodsType string `json:"goodsType" binding:"required,oneof=coin goods subscription content"`
	SellerID  uint64 `json:"sellerId"`
	Price     int64  `json:"price" binding:"required,gt=0"`
	CoinPrice int64  `json:"coinPrice" binding:"gte=0"`
	Stock     int64  `json:"stock" binding:"gte=0"`
}

// CreateGoods 创建商品（管理端）
func (h *GoodsHandler) CreateGoods(c *gin.Context) {
	var input CreateGoodsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	goods := &model.Goods{
		Name:      input.Name,
		GoodsType: input.GoodsType,
		SellerID:  input.SellerID,
		Price:     input.Price,
		CoinPrice: input.CoinPrice,
		Stock:     input.Stock,
		Status:    model.StatusActive,
	}
	if err := h.service.CreateGoods(goods); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, goods)
}

// GetGoods 商品详情
func (h *GoodsHandler) GetGoods(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid goods id")
		return
	}

	goods, err := h.service.GetGoods(id)
	if err != nil {
		response.Fail(c, response.ErrGoodsNotFound, "goods not found")
		return
	}
	response.Success(c, goods)
}

// GetGoodsList 商品列表（分页）
func (h *GoodsHandler) GetGoodsList(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	list, total, err := h.service.GetGoodsList(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit})
}
