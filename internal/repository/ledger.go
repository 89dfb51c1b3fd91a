package repository

import (
	"context"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository/dao"
)

var (
	ErrAssetNotFound      = dao.ErrAssetNotFound
	ErrAssetAlreadyExists = dao.ErrAssetAlreadyExists
	ErrAccountNotFound    = dao.ErrAccountNotFound
	ErrAccountFrozen      = dao.ErrAccountFrozen
)

type AssetDAO interface {
	Insert(ctx context.Context, asset dao.Asset) (dao.Asset, error)
	FindByTokenID(ctx context.Context, tokenID uint64) (dao.Asset, error)
	UpdateApprovedOperator(ctx context.Context, tokenID uint64, operator string) error
	FindAccountByAddress(ctx context.Context, address string) (dao.Account, error)
	Credit(ctx context.Context, address string, amount uint64) (dao.Account, error)
}

// LedgerRepository is the gorm-backed stand-in for the external asset ledger
// and payment rail. The services consume it through narrow interfaces, so a
// chain-backed implementation can replace it without touching the engine.
type LedgerRepository struct {
	dao AssetDAO
}

func NewLedgerRepository(dao AssetDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func assetDaoToDomain(a dao.Asset) domain.Asset {
	return domain.Asset{
		TokenID:          a.TokenID,
		Owner:            a.Owner,
		ApprovedOperator: a.ApprovedOperator,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func accountDaoToDomain(a dao.Account) domain.Account {
	return domain.Account{
		Address: a.Address,
		Balance: a.Balance,
		Frozen:  a.Frozen,
	}
}

func (r *LedgerRepository) RegisterAsset(ctx context.Context, tokenID uint64, owner string) (domain.Asset, error) {
	created, err := r.dao.Insert(ctx, dao.Asset{TokenID: tokenID, Owner: owner})
	if err != nil {
		return domain.Asset{}, err
	}

	return assetDaoToDomain(created), nil
}

func (r *LedgerRepository) FindAsset(ctx context.Context, tokenID uint64) (domain.Asset, error) {
	asset, err := r.dao.FindByTokenID(ctx, tokenID)
	if err != nil {
		return domain.Asset{}, err
	}

	return assetDaoToDomain(asset), nil
}

func (r *LedgerRepository) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	asset, err := r.dao.FindByTokenID(ctx, tokenID)
	if err != nil {
		return "", err
	}

	return asset.Owner, nil
}

func (r *LedgerRepository) IsApprovedForTransfer(ctx context.Context, tokenID uint64) (bool, error) {
	asset, err := r.dao.FindByTokenID(ctx, tokenID)
	if err != nil {
		return false, err
	}

	return asset.ApprovedOperator == dao.MarketplaceOperator, nil
}

func (r *LedgerRepository) SetApproval(ctx context.Context, tokenID uint64, approved bool) error {
	operator := ""
	if approved {
		operator = dao.MarketplaceOperator
	}

	return r.dao.UpdateApprovedOperator(ctx, tokenID, operator)
}

func (r *LedgerRepository) GetAccount(ctx context.Context, address string) (domain.Account, error) {
	account, err := r.dao.FindAccountByAddress(ctx, address)
	if err != nil {
		return domain.Account{}, err
	}

	return accountDaoToDomain(account), nil
}

func (r *LedgerRepository) Deposit(ctx context.Context, address string, amount uint64) (domain.Account, error) {
	account, err := r.dao.Credit(ctx, address, amount)
	if err != nil {
		return domain.Account{}, err
	}

	return accountDaoToDomain(account), nil
}
