package httpapi

// Result 统一响应结构
// - code: 2000 成功，-1 错误，-2 校验类告警
// - type: 'success' | 'error' | 'warning'
// - message: string
// - result: any
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	ResultWarning = -2
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// Warn 校验失败，前端以告警提示，不视为错误
func Warn(message string) Result[any] {
	return Result[any]{Code: ResultWarning, Type: "warning", Message: message, Result: nil}
}
