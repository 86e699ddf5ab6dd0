package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeQuotaLimit   = 429
	CodeServerError  = 500
)

// ========== 业务错误码定义 ==========

// 业务错误码（稳定字符串，前端和审计按此判断）
const (
	BizTenantNotFound  = "TENANT_NOT_FOUND"  // 子域名未匹配任何激活租户
	BizTenantInactive  = "TENANT_INACTIVE"   // 租户已停用
	BizNotFound        = "NOT_FOUND"         // 资源不存在或属于其他租户（故意不区分）
	BizQuotaExceeded   = "QUOTA_EXCEEDED"    // 超出租户配额
	BizUnauthorized    = "UNAUTHORIZED"      // 未登录或凭证无效
	BizForbidden       = "FORBIDDEN"         // 已登录但权限不足
	BizValidationError = "VALIDATION_ERROR"  // 参数校验失败
	BizConflict        = "CONFLICT"          // 并发修改版本冲突
	BizAuditWriteFail  = "AUDIT_WRITE_FAILED" // 审计写入失败（仅内部使用）
)

// AppError 业务错误
type AppError struct {
	Code    string // 业务错误码
	Message string // 用户可见消息
}

func (e *AppError) Error() string {
	return e.Message
}

// New 创建业务错误
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ========== 预定义业务错误 ==========

var (
	ErrTenantNotFound = New(BizTenantNotFound, "租户不存在")
	ErrTenantInactive = New(BizTenantInactive, "租户已停用")
	ErrNotFound       = New(BizNotFound, "资源不存在")
	ErrQuotaExceeded  = New(BizQuotaExceeded, "超出租户配额")
	ErrUnauthorized   = New(BizUnauthorized, "请先登录")
	ErrForbidden      = New(BizForbidden, "权限不足")
	ErrConflict       = New(BizConflict, "数据已被其他人修改，请刷新后重试")
)

// HTTPCode 业务错误码对应的响应码
func (e *AppError) HTTPCode() int {
	switch e.Code {
	case BizValidationError:
		return CodeInvalidParam
	case BizUnauthorized:
		return CodeUnauthorized
	case BizForbidden, BizTenantInactive:
		return CodeForbidden
	case BizNotFound, BizTenantNotFound:
		return CodeNotFound
	case BizConflict:
		return CodeConflict
	case BizQuotaExceeded:
		return CodeQuotaLimit
	default:
		return CodeServerError
	}
}
