package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basenft/marketplace-royalties/internal/analytics"
	"github.com/basenft/marketplace-royalties/internal/api/handler/v1/response"
)

type StatsHandler struct {
	collector *analytics.Collector
}

func NewStatsHandler(collector *analytics.Collector) *StatsHandler {
	return &StatsHandler{
		collector: collector,
	}
}

// HandleGetStats godoc
// @Summary      Marketplace totals
// @Description  Aggregates replayed off marketplace events: sales, volume, royalties and platform fees since startup.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  analytics.Summary
// @Router       /stats [get]
func (h *StatsHandler) HandleGetStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.collector.Summary())
}

// HandleGetRecipientStats godoc
// @Summary      Royalty totals for one recipient
// @Tags         stats
// @Produce      json
// @Param        recipient  path      string  true  "Recipient address"
// @Success      200        {object}  analytics.RecipientStats
// @Failure      404        {object}  response.Err
// @Router       /stats/royalties/{recipient} [get]
func (h *StatsHandler) HandleGetRecipientStats(ctx *gin.Context) {
	recipient := ctx.Param("recipient")

	stats, found := h.collector.RecipientRoyalties(recipient)
	if !found {
		response.RenderErr(ctx, &response.Err{
			StatusCode: http.StatusNotFound,
			Msg:        "no royalties recorded for recipient",
		})
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
