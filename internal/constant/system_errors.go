package constant

// 系统级错误码 (1xxx)
const (
	CodeSuccess     = 0
	CodeSystemError = 1000 // unexpected internal failure
	CodeBadRequest  = 1001 // malformed request payload
	CodeStorage     = 1002 // local persistence read/write failed
)
