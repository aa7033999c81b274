package handler

import (
	"strings"

	"merchant-yapp/internal/auth"
	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	verifier *auth.Verifier
}

func NewAuthHandler(v *auth.Verifier) *AuthHandler {
	return &AuthHandler{verifier: v}
}

func (h *AuthHandler) Challenge(c *gin.Context) {
	var req dto.AuthChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": constant.CodeBadRequest, "msg": err.Error()})
		return
	}
	ok(c, h.verifier.Challenge(req.Address))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": constant.CodeBadRequest, "msg": err.Error()})
		return
	}
	resp, err := h.verifier.Login(req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		h.verifier.SignOut(token)
	}
	ok(c, nil)
}
