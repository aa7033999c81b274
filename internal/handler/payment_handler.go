package handler

import (
	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/qr"
	"merchant-yapp/internal/service"
	"merchant-yapp/internal/yodl"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	normalizer *service.PaymentNormalizer
	resolver   *service.StatusResolver
}

func NewPaymentHandler(n *service.PaymentNormalizer, r *service.StatusResolver) *PaymentHandler {
	return &PaymentHandler{normalizer: n, resolver: r}
}

// Confirmation handles the redirect-return leg: the external flow lands here
// with txHash/chainId in the query and the memo identifying the order. After
// processing, the client is redirected to the same url with the settlement
// parameters stripped, so a refresh replays nothing.
func (h *PaymentHandler) Confirmation(c *gin.Context) {
	if p := yodl.ParsePaymentFromURL(c.Request.URL); p != nil {
		_, _ = h.normalizer.Process(c.Request.Context(), service.SignalFromRedirect(p))
		c.Redirect(303, qr.StripPaymentParams(c.Request.URL.RequestURI()))
		return
	}

	orderID := c.Query("orderId")
	if orderID == "" {
		orderID = c.Query("memo")
	}
	st, err := h.resolver.Resolve(c.Request.Context(), orderID, "", 0)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, st)
}

// Message accepts a cross-context completion message over plain HTTP, for
// embedding contexts that cannot hold the websocket bridge open.
func (h *PaymentHandler) Message(c *gin.Context) {
	var m dto.PaymentMessage
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(400, gin.H{"code": constant.CodeBadRequest, "msg": err.Error()})
		return
	}
	if m.Target != "" {
		// extension noise, acknowledged and ignored
		ok(c, nil)
		return
	}
	evt, err := h.normalizer.Process(c.Request.Context(), service.SignalFromMessage(m))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, evt)
}
