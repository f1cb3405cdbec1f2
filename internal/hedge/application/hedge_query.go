package application

import (
	"context"

	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
)

// HedgeQueryService 头寸查询
type HedgeQueryService struct {
	position *domain.Position
}

// NewHedgeQueryService 构造函数。
func NewHedgeQueryService(position *domain.Position) *HedgeQueryService {
	return &HedgeQueryService{position: position}
}

// GetPosition 返回头寸各腿及开仓价
func (s *HedgeQueryService) GetPosition(ctx context.Context) (*PositionDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return toPositionDTO(s.position), nil
}
