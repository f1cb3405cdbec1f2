package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionhedge/internal/pricing/application"
	"github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"github.com/wyfcoding/optionhedge/pkg/logger"
	"github.com/wyfcoding/optionhedge/pkg/response"
)

// PricingHandler 负责处理与定价相关的 HTTP 请求
type PricingHandler struct {
	svc *application.PricingService
}

// NewPricingHandler 创建 HTTP 处理器实例
func NewPricingHandler(svc *application.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/option/price", h.PriceOption)
		api.POST("/option/greeks", h.GetGreeks)
	}
}

// PricingRequest 定价请求
// 数值字段不做必填校验：非正的现价/行权价/波动率会得到 0 价格而不是错误
type PricingRequest struct {
	OptionType      string  `json:"option_type" binding:"required"`
	StrikePrice     float64 `json:"strike_price"`
	UnderlyingPrice float64 `json:"underlying_price"`
	TimeToExpiry    float64 `json:"time_to_expiry"`
	Volatility      float64 `json:"volatility"`
	RiskFreeRate    float64 `json:"risk_free_rate"`
}

func (r PricingRequest) command() application.PriceOptionCommand {
	return application.PriceOptionCommand{
		OptionType:      r.OptionType,
		StrikePrice:     r.StrikePrice,
		UnderlyingPrice: r.UnderlyingPrice,
		TimeToExpiry:    r.TimeToExpiry,
		Volatility:      r.Volatility,
		RiskFreeRate:    r.RiskFreeRate,
	}
}

// PriceOption 计算期权价格
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.PriceOption(c.Request.Context(), req.command())
	if err != nil {
		h.fail(c, "Failed to calculate option price", err)
		return
	}
	response.Success(c, result)
}

// GetGreeks 计算价格与希腊字母
func (h *PricingHandler) GetGreeks(c *gin.Context) {
	var req PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.GetGreeks(c.Request.Context(), application.GetGreeksQuery(req.command()))
	if err != nil {
		h.fail(c, "Failed to calculate Greeks", err)
		return
	}
	response.Success(c, result)
}

func (h *PricingHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrInvalidOptionType) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid option type", err.Error())
		return
	}
	logger.Error(c.Request.Context(), msg, "error", err)
	response.ErrorWithStatus(c, http.StatusInternalServerError, msg, "")
}
