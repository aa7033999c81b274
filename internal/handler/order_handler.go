package handler

import (
	"strconv"

	"merchant-yapp/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	resolver *service.StatusResolver
}

func NewOrderHandler(r *service.StatusResolver) *OrderHandler {
	return &OrderHandler{resolver: r}
}

// Status serves the merged order view. A txHash in the query (carried over
// from a redirect the client just handled) confirms optimistically.
func (h *OrderHandler) Status(c *gin.Context) {
	orderID := c.Param("id")
	txHash := c.Query("txHash")
	chainID, _ := strconv.Atoi(c.Query("chainId"))

	st, err := h.resolver.Resolve(c.Request.Context(), orderID, txHash, chainID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, st)
}
