package middleware

import (
	"strconv"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const (
	EmployeeIDHeader = "X-Employee-Id"
	employeeIDKey    = "employee_id"
	tokenKey         = "user"
)

// Identity определяет сотрудника запроса. При заданном секрете - claim sub в JWT,
// иначе заголовок X-Employee-Id. Запрос без распознанного сотрудника считается анонимным.
func Identity(jwtSecret string) fiber.Handler {
	if jwtSecret == "" {
		return func(ctx *fiber.Ctx) error {
			if id, ok := parseEmployeeID(ctx.Get(EmployeeIDHeader)); ok {
				ctx.Locals(employeeIDKey, id)
			}
			return ctx.Next()
		}
	}
	return jwtware.New(jwtware.Config{
		Claims:     jwt.MapClaims{},
		ContextKey: tokenKey,
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(jwtSecret),
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			if id, ok := tokenEmployeeID(ctx); ok {
				ctx.Locals(employeeIDKey, id)
			}
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			if ctx.Get(fiber.HeaderAuthorization) != "" {
				log.WithError(err).Debug("токен не распознан, запрос обрабатывается как анонимный")
			}
			return ctx.Next()
		},
	})
}

// GetEmployeeID false - сотрудник не определен
func GetEmployeeID(ctx *fiber.Ctx) (int, bool) {
	id, ok := ctx.Locals(employeeIDKey).(int)
	return id, ok
}

// EmployeeRequired запрещает запрос без распознанного сотрудника
func EmployeeRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if _, ok := GetEmployeeID(ctx); !ok {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "fail",
				"message": "сотрудник не определен",
			})
		}
		return ctx.Next()
	}
}

func tokenEmployeeID(ctx *fiber.Ctx) (int, bool) {
	token, ok := ctx.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return 0, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	switch sub := claims["sub"].(type) {
	case string:
		return parseEmployeeID(sub)
	case float64:
		if sub <= 0 || sub != float64(int(sub)) {
			return 0, false
		}
		return int(sub), true
	}
	return 0, false
}

func parseEmployeeID(value string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
