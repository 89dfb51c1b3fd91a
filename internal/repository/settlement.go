package repository

import (
	"context"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository/dao"
)

var (
	ErrTransferRejected     = dao.ErrTransferRejected
	ErrDisbursementRejected = dao.ErrDisbursementRejected
)

type SettlementDAO interface {
	ExecuteExchange(ctx context.Context, ex dao.Exchange) error
}

type SettlementRepository struct {
	dao SettlementDAO
}

func NewSettlementRepository(dao SettlementDAO) *SettlementRepository {
	return &SettlementRepository{
		dao: dao,
	}
}

func (r *SettlementRepository) ExecuteExchange(ctx context.Context, ex domain.Exchange) error {
	payouts := make([]dao.Payout, len(ex.Payouts))
	for i, payout := range ex.Payouts {
		payouts[i] = dao.Payout{To: payout.To, Amount: payout.Amount}
	}

	return r.dao.ExecuteExchange(ctx, dao.Exchange{
		TokenID:  ex.TokenID,
		Seller:   ex.Seller,
		Buyer:    ex.Buyer,
		Tendered: ex.Tendered,
		Payouts:  payouts,
	})
}
