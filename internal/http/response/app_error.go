package response

import "errors"

// APIError 携带对外状态码与提示的错误
// Cause 只写日志，不出现在响应体
type APIError struct {
	Status int
	Public string
	Cause  error
}

func (e *APIError) Error() string {
	if e.Cause == nil {
		return e.Public
	}
	return e.Public + ": " + e.Cause.Error()
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError 构造错误，status 非法时按 500 处理
func NewAPIError(status int, public string, cause error) *APIError {
	if status < 400 || status > 599 {
		status = CodeInternal
	}
	return &APIError{Status: status, Public: public, Cause: cause}
}

// AsAPIError 从错误链中取出 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
