package handler

import (
	"strconv"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/service"

	"github.com/gin-gonic/gin"
)

// VerifyHandler backs the admin scanner: reconstruct and verify an order from
// a scanned confirmation url, or from a bare order id. Admin-gated upstream.
type VerifyHandler struct {
	resolver *service.StatusResolver
}

func NewVerifyHandler(r *service.StatusResolver) *VerifyHandler {
	return &VerifyHandler{resolver: r}
}

func (h *VerifyHandler) Scan(c *gin.Context) {
	raw := c.Query("u")
	if raw == "" {
		c.JSON(400, gin.H{"code": constant.CodeBadRequest, "msg": "missing scanned url"})
		return
	}
	st, err := h.resolver.VerifyScan(c.Request.Context(), raw)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, st)
}

func (h *VerifyHandler) ByID(c *gin.Context) {
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
