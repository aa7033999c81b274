package constant

// ErrorMessages 错误信息映射
var ErrorMessages = map[int]string{
	CodeSuccess:     "success",
	CodeSystemError: "system error",
	CodeBadRequest:  "bad request",
	CodeStorage:     "storage unavailable",

	CodeOrderNotFound:   "order not found",
	CodeCheckoutInvalid: "invalid checkout request",

	CodePaymentInitiation: "payment initiation failed",
	CodePaymentTimeout:    "payment timed out",
	CodeSignalInvalid:     "payment signal missing order id or tx hash",

	CodeUnauthorized: "address is not an admin",
	CodeOriginDenied: "origin not allowed",
}
