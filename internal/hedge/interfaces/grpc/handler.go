package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	hedgeapp "github.com/wyfcoding/optionhedge/internal/hedge/application"
	hedgedomain "github.com/wyfcoding/optionhedge/internal/hedge/domain"
	pricingapp "github.com/wyfcoding/optionhedge/internal/pricing/application"
	pricingdomain "github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCHandler gRPC 处理器
type GRPCHandler struct {
	pricing *pricingapp.PricingService
	hedge   *hedgeapp.HedgeService
}

var _ HedgeServiceServer = (*GRPCHandler)(nil)

// NewGRPCHandler 创建 gRPC 处理器实例
func NewGRPCHandler(pricing *pricingapp.PricingService, hedge *hedgeapp.HedgeService) *GRPCHandler {
	return &GRPCHandler{pricing: pricing, hedge: hedge}
}

// PriceOption 期权定价
// 请求字段：option_type, strike_price, underlying_price, time_to_expiry, volatility, risk_free_rate
func (h *GRPCHandler) PriceOption(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	dto, err := h.pricing.PriceOption(ctx, pricingapp.PriceOptionCommand{
		OptionType:      f["option_type"].GetStringValue(),
		StrikePrice:     f["strike_price"].GetNumberValue(),
		UnderlyingPrice: f["underlying_price"].GetNumberValue(),
		TimeToExpiry:    f["time_to_expiry"].GetNumberValue(),
		Volatility:      f["volatility"].GetNumberValue(),
		RiskFreeRate:    f["risk_free_rate"].GetNumberValue(),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(dto)
}

// EvaluateScenario 情景评估
// 请求字段：spot，以及 at_expiry / months / time_remaining 之一，缺省为到期
func (h *GRPCHandler) EvaluateScenario(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	cmd := hedgeapp.EvaluateScenarioCommand{Spot: f["spot"].GetNumberValue()}
	switch {
	case f["at_expiry"].GetBoolValue():
		cmd.AtExpiry = true
	case f["months"] != nil:
		months, err := wholeMonths(f["months"].GetNumberValue())
		if err != nil {
			return nil, toStatus(err)
		}
		cmd.TimeRemaining = hedgedomain.MonthsToYears(months)
	case f["time_remaining"] != nil:
		cmd.TimeRemaining = f["time_remaining"].GetNumberValue()
	default:
		cmd.AtExpiry = true
	}

	dto, err := h.hedge.EvaluateScenario(ctx, cmd)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(dto)
}

// GetPosition 查询头寸
func (h *GRPCHandler) GetPosition(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	dto, err := h.hedge.GetPosition(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(dto)
}

// SweepScenarios 网格扫描
// 请求字段：spot_from, spot_to, spot_step, times；全部缺省时使用默认网格
func (h *GRPCHandler) SweepScenarios(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	grid := hedgedomain.ScenarioGrid{
		SpotFrom: f["spot_from"].GetNumberValue(),
		SpotTo:   f["spot_to"].GetNumberValue(),
		SpotStep: f["spot_step"].GetNumberValue(),
	}
	for _, v := range f["times"].GetListValue().GetValues() {
		grid.Times = append(grid.Times, v.GetNumberValue())
	}

	dto, err := h.hedge.Sweep(ctx, hedgeapp.SweepCommand{Grid: grid})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(dto)
}

// maxMonths 月数上限，保证 float64 到 int 的转换有定义
const maxMonths = 1 << 20

// wholeMonths 要求 months 为有限整数，小数月不做截断
func wholeMonths(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > maxMonths {
		return 0, fmt.Errorf("%w: months must be a whole number, got %v", hedgedomain.ErrInvalidScenario, v)
	}
	return int(v), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, pricingdomain.ErrInvalidOptionType),
		errors.Is(err, hedgedomain.ErrInvalidScenario),
		errors.Is(err, hedgedomain.ErrInvalidGrid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct 经 JSON 把 DTO 转为 Struct，字段名沿用 json tag
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
