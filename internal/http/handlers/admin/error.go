package admin

import (
	handlershared "github.com/newsroom-next/internal/http/handlers/shared"
	"github.com/newsroom-next/internal/http/response"
	"github.com/newsroom-next/internal/service"
)

const (
	msgTitleContentRequired = "Title and content required"
	msgPostNotFound         = "Post not found"
	msgPageNotFound         = "Page not found"
	msgInvalidPostsArray    = "Invalid posts array"
	msgImportTooLarge       = "Import payload too large"
	msgMenuItemNotFound     = "Menu item not found"
)

// contentWriteRules 文章与页面写入共用的映射
var contentWriteRules = []handlershared.MappedError{
	{Target: service.ErrTitleContentRequired, Code: response.CodeBadRequest, Msg: msgTitleContentRequired},
	{Target: service.ErrInvalidStatus, Code: response.CodeBadRequest, Msg: "Invalid status"},
	{Target: service.ErrScheduledAtRequired, Code: response.CodeBadRequest, Msg: "scheduled_at is required for scheduled content"},
}

var postErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: msgPostNotFound},
}, contentWriteRules...)

var pageErrorRules = append([]handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: msgPageNotFound},
}, contentWriteRules...)

var menuErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: msgMenuItemNotFound},
	{Target: service.ErrMenuItemInvalid, Code: response.CodeBadRequest, Msg: "Label and url required"},
}

var importErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidImportPayload, Code: response.CodeBadRequest, Msg: msgInvalidPostsArray},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "Import batch not found"},
}
