package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionhedge/internal/hedge/application"
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	"github.com/wyfcoding/optionhedge/pkg/logger"
	"github.com/wyfcoding/optionhedge/pkg/response"
)

// HedgeHandler 对冲头寸模拟 HTTP 处理器
type HedgeHandler struct {
	svc *application.HedgeService
}

// NewHedgeHandler 创建 HTTP 处理器实例
func NewHedgeHandler(svc *application.HedgeService) *HedgeHandler {
	return &HedgeHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *HedgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/hedge")
	{
		api.GET("/position", h.GetPosition)
		api.POST("/evaluate", h.EvaluateScenario)
		api.POST("/sweep", h.Sweep)
	}
}

// EvaluateRequest 情景评估请求
// 期限优先级：at_expiry > months > time_remaining；都未给出时按到期处理
type EvaluateRequest struct {
	Spot          float64  `json:"spot"`
	TimeRemaining *float64 `json:"time_remaining"`
	Months        *int     `json:"months"`
	AtExpiry      bool     `json:"at_expiry"`
}

func (r EvaluateRequest) command() application.EvaluateScenarioCommand {
	cmd := application.EvaluateScenarioCommand{Spot: r.Spot}
	switch {
	case r.AtExpiry:
		cmd.AtExpiry = true
	case r.Months != nil:
		cmd.TimeRemaining = domain.MonthsToYears(*r.Months)
	case r.TimeRemaining != nil:
		cmd.TimeRemaining = *r.TimeRemaining
	default:
		cmd.AtExpiry = true
	}
	return cmd
}

// SweepRequest 网格扫描请求，全部为空时使用默认网格
// Months 换算为年后追加到 Times
type SweepRequest struct {
	SpotFrom float64   `json:"spot_from"`
	SpotTo   float64   `json:"spot_to"`
	SpotStep float64   `json:"spot_step"`
	Times    []float64 `json:"times"`
	Months   []int     `json:"months"`
}

func (r SweepRequest) command() application.SweepCommand {
	times := append([]float64(nil), r.Times...)
	for _, m := range r.Months {
		times = append(times, domain.MonthsToYears(m))
	}
	return application.SweepCommand{Grid: domain.ScenarioGrid{
		SpotFrom: r.SpotFrom,
		SpotTo:   r.SpotTo,
		SpotStep: r.SpotStep,
		Times:    times,
	}}
}

// GetPosition 查询头寸
func (h *HedgeHandler) GetPosition(c *gin.Context) {
	result, err := h.svc.GetPosition(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to get position", err)
		return
	}
	response.Success(c, result)
}

// EvaluateScenario 评估单个情景
func (h *HedgeHandler) EvaluateScenario(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.EvaluateScenario(c.Request.Context(), req.command())
	if err != nil {
		h.fail(c, "Failed to evaluate scenario", err)
		return
	}
	response.Success(c, result)
}

// Sweep 网格扫描
func (h *HedgeHandler) Sweep(c *gin.Context) {
	var req SweepRequest
	// 空 body 表示默认网格
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.Sweep(c.Request.Context(), req.command())
	if err != nil {
		h.fail(c, "Failed to sweep scenarios", err)
		return
	}
	response.Success(c, result)
}

func (h *HedgeHandler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, domain.ErrInvalidScenario) || errors.Is(err, domain.ErrInvalidGrid) {
		response.ErrorWithStatus(c, http.StatusBadRequest, msg, err.Error())
		return
	}
	logger.Error(c.Request.Context(), msg, "error", err)
	response.ErrorWithStatus(c, http.StatusInternalServerError, msg, "")
}
