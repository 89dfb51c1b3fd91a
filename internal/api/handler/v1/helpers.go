package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/response"
	"github.com/basenft/marketplace-royalties/internal/api/middleware"
	"github.com/basenft/marketplace-royalties/internal/domain"
	"github.com/basenft/marketplace-royalties/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("missing authentication"))
	}

	userID, ok := raw.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("invalid authentication context"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		// A token may outlive its user row.
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errors.New("unknown user"))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}
