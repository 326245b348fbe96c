package shared

import (
	"strings"

	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"
)

// CaptchaPayloadRequest 验证码请求载荷。
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload 转换为 service 层验证码载荷。
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}

// CaptchaErrorRules 验证码错误映射
var CaptchaErrorRules = []MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Msg: "Captcha required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Msg: "Captcha invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeBadRequest, Msg: "Captcha not enabled"},
}
