package apperrors

import "github.com/pkg/errors"

var (
	// ErrNotFound документ (или связанная запись) не найден
	ErrNotFound = errors.New("не найдено")
	// ErrForbidden у сотрудника нет прав на операцию
	ErrForbidden = errors.New("операция недоступна")
	// ErrNoCurrentStep в цепочке не осталось этапа на согласовании
	ErrNoCurrentStep = errors.New("нет этапа для согласования")
	// ErrConflict конфликт идентификатора или параллельной обработки
	ErrConflict = errors.New("конфликт")
	// ErrValidation некорректные данные запроса
	ErrValidation = errors.New("некорректные данные")
)

type domainError struct {
	kind error
	msg  string
}

func (e domainError) Error() string {
	return e.msg
}

func (e domainError) Unwrap() error {
	return e.kind
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func NoCurrentStep(format string, args ...interface{}) error {
	return newError(ErrNoCurrentStep, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func newError(kind error, format string, args ...interface{}) error {
	return errors.WithStack(domainError{
		kind: kind,
		msg:  errors.Errorf(format, args...).Error(),
	})
}
