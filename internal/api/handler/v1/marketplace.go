package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/request"
	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/response"
	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/service"
)

type ListingService interface {
	Create(ctx context.Context, tokenID uint64, seller string, price uint64, royaltyRecipient string, royaltyBp uint64) (domain.Listing, error)
	Cancel(ctx context.Context, tokenID uint64, caller string) error
	Get(ctx context.Context, tokenID uint64) (domain.Listing, error)
}

type SettlementService interface {
	Purchase(ctx context.Context, tokenID uint64, buyer string, tendered uint64) (domain.Settlement, error)
	RoyaltyInfo(ctx context.Context, tokenID uint64, salePrice uint64) (string, uint64, error)
}

type MarketplaceHandler struct {
	listings    ListingService
	settlements SettlementService
	uSvc        UserService
}

func NewMarketplaceHandler(listings ListingService, settlements SettlementService, uSvc UserService) *MarketplaceHandler {
	return &MarketplaceHandler{
		listings:    listings,
		settlements: settlements,
		uSvc:        uSvc,
	}
}

func parseTokenID(ctx *gin.Context) (uint64, *response.Err) {
	tokenID, err := strconv.ParseUint(ctx.Param("tokenID"), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid token ID: %w", err))
	}

	return tokenID, nil
}

// HandleCreateListing godoc
// @Summary      List an item for sale
// @Description  Creates an Active listing. The caller must own the item and have approved the marketplace for transfer.
// @Tags         listings
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateListingRequest  true  "listing details"
// @Success      201      {object}  domain.Listing
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /listings [post]
// @Security     BearerAuth
func (h *MarketplaceHandler) HandleCreateListing(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	listing, err := h.listings.Create(ctx.Request.Context(), req.TokenID, user.Address, req.Price, req.RoyaltyRecipient, req.RoyaltyBp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrRoyaltyOutOfBounds):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrNotOwner), errors.Is(err, service.ErrNotApproved):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrAssetNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrItemAlreadyListed), errors.Is(err, service.ErrMarketplacePaused):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCreateListing -> h.listings.Create -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, listing)
}

// HandleGetListing godoc
// @Summary      Get the active listing for an item
// @Tags         listings
// @Produce      json
// @Param        tokenID  path      int  true  "Token ID"
// @Success      200      {object}  domain.Listing
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /listings/{tokenID} [get]
func (h *MarketplaceHandler) HandleGetListing(ctx *gin.Context) {
	tokenID, respErr := parseTokenID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	listing, err := h.listings.Get(ctx.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetListing -> h.listings.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, listing)
}

// HandleCancelListing godoc
// @Summary      Cancel an active listing
// @Description  The seller may cancel their own listing; the administrator may force-cancel any listing.
// @Tags         listings
// @Produce      json
// @Param        tokenID  path  int  true  "Token ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /listings/{tokenID} [delete]
// @Security     BearerAuth
func (h *MarketplaceHandler) HandleCancelListing(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tokenID, respErr := parseTokenID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.listings.Cancel(ctx.Request.Context(), tokenID, user.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrNotSeller):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleCancelListing -> h.listings.Cancel -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePurchase godoc
// @Summary      Purchase a listed item
// @Description  Settles the sale atomically: ownership transfer, royalty, platform fee, seller proceeds and any overpayment refund all commit together or not at all.
// @Tags         listings
// @Accept       json
// @Produce      json
// @Param        tokenID  path      int                      true  "Token ID"
// @Param        request  body      request.PurchaseRequest  true  "tendered amount"
// @Success      200      {object}  response.PurchaseResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      402      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /listings/{tokenID}/purchase [post]
// @Security     BearerAuth
func (h *MarketplaceHandler) HandlePurchase(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tokenID, respErr := parseTokenID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	settled, err := h.settlements.Purchase(ctx.Request.Context(), tokenID, user.Address, req.TenderedAmount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInsufficientPayment):
			response.RenderErr(ctx, response.ErrPaymentRequired(err))
		case errors.Is(err, service.ErrMarketplacePaused):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrTransferFailed), errors.Is(err, service.ErrDisbursementFailed):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandlePurchase -> h.settlements.Purchase -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	// The response reports the settlement exactly as it committed, never a
	// listing read racing a concurrent cancel-and-relist.
	ctx.JSON(http.StatusOK, response.PurchaseResponse{
		TokenID:           settled.TokenID,
		Buyer:             settled.Buyer,
		Price:             settled.Price,
		RoyaltyAmount:     settled.Result.RoyaltyAmount,
		PlatformFeeAmount: settled.Result.PlatformFeeAmount,
		SellerProceeds:    settled.Result.SellerProceeds,
		Refund:            settled.Refund,
	})
}

// HandleRoyaltyInfo godoc
// @Summary      Royalty for a hypothetical sale price
// @Tags         listings
// @Produce      json
// @Param        tokenID  path      int  true  "Token ID"
// @Param        price    query     int  true  "Sale price"
// @Success      200      {object}  response.RoyaltyInfoResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /listings/{tokenID}/royalty [get]
func (h *MarketplaceHandler) HandleRoyaltyInfo(ctx *gin.Context) {
	tokenID, respErr := parseTokenID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	salePrice, err := strconv.ParseUint(ctx.Query("price"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid price: %w", err)))
		return
	}

	recipient, amount, err := h.settlements.RoyaltyInfo(ctx.Request.Context(), tokenID, salePrice)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListingNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrArithmeticOverflow):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.HandleRoyaltyInfo -> h.settlements.RoyaltyInfo -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.RoyaltyInfoResponse{
		TokenID:       tokenID,
		Recipient:     recipient,
		SalePrice:     salePrice,
		RoyaltyAmount: amount,
	})
}
