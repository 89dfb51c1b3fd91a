package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/request"
	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/response"
	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/service"
)

type LedgerService interface {
	RegisterAsset(ctx context.Context, tokenID uint64, owner string) (domain.Asset, error)
	GetAsset(ctx context.Context, tokenID uint64) (domain.Asset, error)
	SetApproval(ctx context.Context, tokenID uint64, caller string, approved bool) error
	GetAccount(ctx context.Context, address string) (domain.Account, error)
	Deposit(ctx context.Context, address string, amount uint64) (domain.Account, error)
}

type LedgerHandler struct {
	svc  LedgerService
	uSvc UserService
}

func NewLedgerHandler(svc LedgerService, uSvc UserService) *LedgerHandler {
	return &LedgerHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRegisterAsset godoc
// @Summary      Register an item on the local asset ledger
// @Description  Records the caller as the item's owner. Mirrors the mint step performed against the external ledger.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterAssetRequest  true  "token ID"
// @Success      201      {object}  domain.Asset
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /assets [post]
// @Security     BearerAuth
func (h *LedgerHandler) HandleRegisterAsset(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	asset, err := h.svc.RegisterAsset(ctx.Request.Context(), req.TokenID, user.Address)
	if err != nil {
		if errors.Is(err, service.ErrAssetAlreadyExists) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleRegisterAsset -> h.svc.RegisterAsset -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, asset)
}

// HandleGetAsset godoc
// @Summary      Get an item's owner and approval state
// @Tags         ledger
// @Produce      json
// @Param        tokenID  path      int  true  "Token ID"
// @Success      200      {object}  domain.Asset
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /assets/{tokenID} [get]
func (h *LedgerHandler) HandleGetAsset(ctx *gin.Context) {
	tokenID, respErr := parseTokenID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	asset, err := h.svc.GetAsset(ctx.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetAsset -> h.svc.GetAsset -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, asset)
}

// HandleSetApproval godoc
// @Summary      Grant or revoke the marketplace's transfer approval
// @Description  Only the item's current owner may change the approval.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        tokenID  path  int                         true  "Token ID"
// @Param        request  body  request.SetApprovalRequest  true  "approval flag"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /assets/{tokenID}/approval [post]
// @Security     BearerAuth
func (h *LedgerHandler) HandleSetApproval(ctx *gin.Context) {
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

	var req request.SetApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.SetApproval(ctx.Request.Context(), tokenID, user.Address, req.Approved)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssetNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrNotOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleSetApproval -> h.svc.SetApproval -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeposit godoc
// @Summary      Fund the caller's payment account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request  body      request.DepositRequest  true  "amount"
// @Success      200      {object}  domain.Account
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /accounts/deposit [post]
// @Security     BearerAuth
func (h *LedgerHandler) HandleDeposit(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DepositRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	account, err := h.svc.Deposit(ctx.Request.Context(), user.Address, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeposit -> h.svc.Deposit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, account)
}

// HandleGetAccount godoc
// @Summary      Get the caller's payment account
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /accounts/me [get]
// @Security     BearerAuth
func (h *LedgerHandler) HandleGetAccount(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	account, err := h.svc.GetAccount(ctx.Request.Context(), user.Address)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		err = fmt.Errorf("v1.HandleGetAccount -> h.svc.GetAccount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, account)
}
