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

type AdminService interface {
	Configure(ctx context.Context, caller string, cfg domain.FeeConfig) error
	TransferAdministrator(ctx context.Context, caller, newAdministrator string) error
	SetPaused(ctx context.Context, caller string, paused bool) error
	GetSettings(ctx context.Context, caller string) (domain.Settings, error)
}

type AdminHandler struct {
	svc  AdminService
	uSvc UserService
}

func NewAdminHandler(svc AdminService, uSvc UserService) *AdminHandler {
	return &AdminHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func (h *AdminHandler) renderAdminErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrInvalidConfiguration), errors.Is(err, service.ErrInvalidPrincipal):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleConfigure godoc
// @Summary      Replace the fee configuration
// @Description  Administrator only. Sets the platform fee and the royalty bounds, all in basis points.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body  request.ConfigureRequest  true  "fee configuration"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/config [put]
// @Security     BearerAuth
func (h *AdminHandler) HandleConfigure(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ConfigureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Configure(ctx.Request.Context(), user.Address, domain.FeeConfig{
		PlatformFeeBp: req.PlatformFeeBp,
		MinRoyaltyBp:  req.MinRoyaltyBp,
		MaxRoyaltyBp:  req.MaxRoyaltyBp,
	})
	if err != nil {
		h.renderAdminErr(ctx, "HandleConfigure -> h.svc.Configure", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleTransferAdministrator godoc
// @Summary      Transfer the administrator role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body  request.TransferAdministratorRequest  true  "new administrator"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/transfer [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleTransferAdministrator(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.TransferAdministratorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.TransferAdministrator(ctx.Request.Context(), user.Address, req.NewAdministrator)
	if err != nil {
		h.renderAdminErr(ctx, "HandleTransferAdministrator -> h.svc.TransferAdministrator", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePause godoc
// @Summary      Pause the marketplace
// @Tags         admin
// @Produce      json
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/pause [post]
// @Security     BearerAuth
func (h *AdminHandler) HandlePause(ctx *gin.Context) {
	h.handleSetPaused(ctx, true)
}

// HandleUnpause godoc
// @Summary      Unpause the marketplace
// @Tags         admin
// @Produce      json
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/unpause [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleUnpause(ctx *gin.Context) {
	h.handleSetPaused(ctx, false)
}

func (h *AdminHandler) handleSetPaused(ctx *gin.Context, paused bool) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.SetPaused(ctx.Request.Context(), user.Address, paused); err != nil {
		h.renderAdminErr(ctx, "handleSetPaused -> h.svc.SetPaused", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetSettings godoc
// @Summary      Current marketplace settings
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.Settings
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/settings [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetSettings(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	settings, err := h.svc.GetSettings(ctx.Request.Context(), user.Address)
	if err != nil {
		h.renderAdminErr(ctx, "HandleGetSettings -> h.svc.GetSettings", err)
		return
	}

	ctx.JSON(http.StatusOK, settings)
}
