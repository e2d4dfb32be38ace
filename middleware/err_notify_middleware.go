package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var notifyClient = &http.Client{Timeout: 10 * time.Second}

type errNotifyPayload struct {
	Code       int    `json:"code"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	EmployeeID *int   `json:"employee_id,omitempty"`
	Error      string `json:"error"`
}

// ErrNotify отправляет на addr уведомление о каждом ответе 5xx
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		body := c.Response().Body()
		if unmErr := json.Unmarshal(body, &data); unmErr != nil {
			log.WithError(unmErr).Warn("не удалось разобрать тело ответа для уведомления об ошибке")
		}

		payload := errNotifyPayload{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		if payload.Error == "" {
			payload.Error = string(body)
		}
		if id, ok := GetEmployeeID(c); ok {
			payload.EmployeeID = &id
		}

		go sendErrNotify(addr, payload)
		return err
	}
}

func sendErrNotify(addr string, payload errNotifyPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Warn("ошибка формирования уведомления об ошибке")
		return
	}
	resp, err := notifyClient.Post(addr, "application/json", strings.NewReader(string(raw)))
	if err != nil {
		log.WithError(err).Warn("ошибка отправки уведомления об ошибке")
		return
	}
	resp.Body.Close()
}
