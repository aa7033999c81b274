package constant

// 业务级错误码 (2xxx)

// Order errors
const (
	CodeOrderNotFound   = 2100 // neither order nor payment known for the id
	CodeCheckoutInvalid = 2101 // bad amount/currency on checkout
)

// Payment errors
const (
	CodePaymentInitiation = 2300 // payment request rejected or returned nothing
	CodePaymentTimeout    = 2301 // no completion signal inside the timeout window
	CodeSignalInvalid     = 2302 // completion signal missing orderId or txHash
)

// Access control errors
const (
	CodeUnauthorized = 2400 // non-admin address on an admin action
	CodeOriginDenied = 2401 // message origin not on the allow-list
)
