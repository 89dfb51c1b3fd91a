package repository

import (
	"context"

	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/repository/dao"
)

var (
	ErrListingNotFound   = dao.ErrListingNotFound
	ErrItemAlreadyListed = dao.ErrItemAlreadyListed
	ErrListingNotActive  = dao.ErrListingNotActive
)

type ListingDAO interface {
	Insert(ctx context.Context, listing dao.Listing) (dao.Listing, error)
	FindActiveByTokenID(ctx context.Context, tokenID uint64) (dao.Listing, error)
	HasActiveByTokenID(ctx context.Context, tokenID uint64) (bool, error)
	UpdateState(ctx context.Context, tokenID uint64, state string) error
}

type ListingRepository struct {
	dao ListingDAO
}

func NewListingRepository(dao ListingDAO) *ListingRepository {
	return &ListingRepository{
		dao: dao,
	}
}

func (r *ListingRepository) domainToDao(l domain.Listing) dao.Listing {
	return dao.Listing{
		ID:               l.ID,
		TokenID:          l.TokenID,
		Seller:           l.Seller,
		Price:            l.Price,
		RoyaltyRecipient: l.Royalty.Recipient,
		RoyaltyBp:        l.Royalty.PercentageBp,
		State:            string(l.State),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func (r *ListingRepository) daoToDomain(l dao.Listing) domain.Listing {
	return domain.Listing{
		ID:      l.ID,
		TokenID: l.TokenID,
		Seller:  l.Seller,
		Price:   l.Price,
		Royalty: domain.RoyaltyConfig{
			Recipient:    l.RoyaltyRecipient,
			PercentageBp: l.RoyaltyBp,
		},
		State:     domain.ListingState(l.State),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (r *ListingRepository) CreateActive(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	listing.State = domain.ListingStateActive

	created, err := r.dao.Insert(ctx, r.domainToDao(listing))
	if err != nil {
		return domain.Listing{}, err
	}

	return r.daoToDomain(created), nil
}

func (r *ListingRepository) FindActiveByTokenID(ctx context.Context, tokenID uint64) (domain.Listing, error) {
	listing, err := r.dao.FindActiveByTokenID(ctx, tokenID)
	if err != nil {
		return domain.Listing{}, err
	}

	return r.daoToDomain(listing), nil
}

func (r *ListingRepository) HasActiveByTokenID(ctx context.Context, tokenID uint64) (bool, error) {
	return r.dao.HasActiveByTokenID(ctx, tokenID)
}

func (r *ListingRepository) MarkCancelled(ctx context.Context, tokenID uint64) error {
	return r.dao.UpdateState(ctx, tokenID, string(domain.ListingStateCancelled))
}
