package handler

import (
	"context"
	"time"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc        *service.CheckoutService
	payTimeout time.Duration
}

func NewCheckoutHandler(svc *service.CheckoutService, payTimeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, payTimeout: payTimeout}
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": constant.CodeBadRequest, "msg": err.Error()})
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// Wait long-polls for confirmation of one order. The timeout is the payment
// window: expiry means the attempt failed and the client may offer a retry.
func (h *CheckoutHandler) Wait(c *gin.Context) {
	orderID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.payTimeout)
	defer cancel()
	evt, err := h.svc.AwaitConfirmation(ctx, orderID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, evt)
}
