package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid        = "pid"
	TagLatency    = "latency"
	TagStatus     = "status"
	TagMethod     = "method"
	TagPath       = "path"
	TagURL        = "url"
	TagIP         = "ip"
	TagUA         = "user_agent"
	TagRequestID  = "request_id"
	TagBody       = "body"
	TagEmployeeID = "employee_id"
)

// maxBodyLen тело запроса длиннее лимита в лог не попадает
const maxBodyLen = 4096

// FuncTag значение тега для записи лога
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// EmployeeIDFunc возвращает сотрудника запроса, задается при подключении middleware
var EmployeeIDFunc func(c *fiber.Ctx) (int, bool)

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, d *data) interface{} {
			return c.OriginalURL()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUA: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagRequestID: func(c *fiber.Ctx, d *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if c.Is("json") && len(c.Body()) <= maxBodyLen {
				return string(c.Body())
			}
			return ""
		},
		TagEmployeeID: func(c *fiber.Ctx, d *data) interface{} {
			if EmployeeIDFunc == nil {
				return ""
			}
			if id, ok := EmployeeIDFunc(c); ok {
				return id
			}
			return ""
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
