package response

// 业务状态码
// 约定：1xxxx 用户，2xxxx 商品，3xxxx 钱包，4xxxx 订单，5xxxx 系统
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserNotFound = 10001
	ErrAuthFailed   = 10002
	ErrTokenInvalid = 10003
	ErrNoPermission = 10004

	// 商品模块错误 200xx
	ErrGoodsNotFound     = 20001
	ErrGoodsInactive     = 20002
	ErrInsufficientStock = 20003

	// 钱包模块错误 300xx
	ErrWalletNotFound       = 30001
	ErrInsufficientBalance  = 30002
	ErrDuplicateTransaction = 30003

	// 订单模块错误 400xx
	ErrOrderNotFound         = 40001
	ErrInvalidStateTransition = 40002
	ErrRefundNotAllowed      = 40003
	ErrPaymentFailed         = 40004
	ErrUnsupportedChannel    = 40005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrDependencyDown  = 50004
)
