package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository"
)

var (
	ErrAssetAlreadyExists = repository.ErrAssetAlreadyExists
	ErrAccountNotFound    = repository.ErrAccountNotFound
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
)

// LedgerWriter is the registration surface of the local asset ledger and
// payment rail stand-in: registering items, approving the marketplace and
// funding accounts.
type LedgerWriter interface {
	RegisterAsset(ctx context.Context, tokenID uint64, owner string) (domain.Asset, error)
	FindAsset(ctx context.Context, tokenID uint64) (domain.Asset, error)
	SetApproval(ctx context.Context, tokenID uint64, approved bool) error
	GetAccount(ctx context.Context, address string) (domain.Account, error)
	Deposit(ctx context.Context, address string, amount uint64) (domain.Account, error)
}

type LedgerService struct {
	repo LedgerWriter
}

func NewLedgerService(repo LedgerWriter) *LedgerService {
	return &LedgerService{
		repo: repo,
	}
}

func (s *LedgerService) RegisterAsset(ctx context.Context, tokenID uint64, owner string) (domain.Asset, error) {
	asset, err := s.repo.RegisterAsset(ctx, tokenID, owner)
	if err != nil {
		if errors.Is(err, repository.ErrAssetAlreadyExists) {
			return domain.Asset{}, ErrAssetAlreadyExists
		}

		return domain.Asset{}, fmt.Errorf("s.repo.RegisterAsset -> %w", err)
	}

	return asset, nil
}

func (s *LedgerService) GetAsset(ctx context.Context, tokenID uint64) (domain.Asset, error) {
	asset, err := s.repo.FindAsset(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return domain.Asset{}, ErrAssetNotFound
		}

		return domain.Asset{}, fmt.Errorf("s.repo.FindAsset -> %w", err)
	}

	return asset, nil
}

// SetApproval grants or revokes the marketplace's transfer authorization for
// an item. Only the current owner may change it.
func (s *LedgerService) SetApproval(ctx context.Context, tokenID uint64, caller string, approved bool) error {
	asset, err := s.repo.FindAsset(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return ErrAssetNotFound
		}

		return fmt.Errorf("s.repo.FindAsset -> %w", err)
	}
	if asset.Owner != caller {
		return ErrNotOwner
	}

	if err = s.repo.SetApproval(ctx, tokenID, approved); err != nil {
		return fmt.Errorf("s.repo.SetApproval -> %w", err)
	}

	return nil
}

func (s *LedgerService) GetAccount(ctx context.Context, address string) (domain.Account, error) {
	account, err := s.repo.GetAccount(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}

		return domain.Account{}, fmt.Errorf("s.repo.GetAccount -> %w", err)
	}

	return account, nil
}

func (s *LedgerService) Deposit(ctx context.Context, address string, amount uint64) (domain.Account, error) {
	if amount == 0 {
		return domain.Account{}, ErrInvalidAmount
	}

	account, err := s.repo.Deposit(ctx, address, amount)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.repo.Deposit -> %w", err)
	}

	return account, nil
}
