package handler

import (
	"errors"

	"merchant-yapp/internal/constant"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"code": constant.CodeSuccess, "data": data})
}

// fail maps coded errors to HTTP statuses. Unknown errors surface as 500.
func fail(c *gin.Context, err error) {
	code := constant.CodeOf(err)
	msg := err.Error()
	var ce constant.Error
	if errors.As(err, &ce) {
		msg = ce.Message()
	}
	c.JSON(httpStatus(code), gin.H{"code": code, "msg": msg})
}

func httpStatus(code int) int {
	switch code {
	case constant.CodeOrderNotFound:
		return 404
	case constant.CodeBadRequest, constant.CodeCheckoutInvalid, constant.CodeSignalInvalid:
		return 400
	case constant.CodeUnauthorized, constant.CodeOriginDenied:
		return 403
	case constant.CodePaymentTimeout:
		return 504
	case constant.CodePaymentInitiation:
		return 502
	default:
		return 500
	}
}
