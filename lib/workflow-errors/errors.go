package workflowerrors

import (
	"github.com/pkg/errors"
)

var (
	ErrPermissionDenied = errors.New("действие доступно только текущему согласующему или администратору")
	ErrRouteNotFound    = errors.New("маршрут согласования для типа заявки не настроен")
	ErrPersistence      = errors.New("не удалось сохранить изменения, повторите попытку")
	ErrTerminalState    = errors.New("заявка уже в конечном статусе")
	ErrStaleAssignee    = errors.New("текущий согласующий отсутствует в маршруте согласования")
	ErrConcurrentUpdate = errors.New("заявка была изменена другим пользователем, обновите данные")
	ErrNotFound         = errors.New("запись не найдена")
	ErrValidation       = errors.New("некорректные данные")
)

// Persistence оборачивает ошибку хранилища
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{kind: ErrPersistence, cause: err}
}

// Validation ошибка валидации с сообщением для пользователя
func Validation(msg string) error {
	return &wrapped{kind: ErrValidation, msg: msg}
}

func RouteNotFound(requestType string, cause error) error {
	return &wrapped{kind: ErrRouteNotFound, msg: ErrRouteNotFound.Error() + ": " + requestType, cause: cause}
}

type wrapped struct {
	kind  error
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	if w.msg != "" {
		return w.msg
	}
	if w.cause != nil {
		return w.kind.Error() + ": " + w.cause.Error()
	}
	return w.kind.Error()
}

func (w *wrapped) Is(target error) bool {
	return target == w.kind
}

func (w *wrapped) Unwrap() error {
	return w.cause
}

// UserMessage текст ошибки, который можно показать пользователю
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrRouteNotFound):
		return err.Error()
	case errors.Is(err, ErrPersistence):
		return ErrPersistence.Error()
	}
	for _, known := range []error{ErrPermissionDenied, ErrTerminalState, ErrStaleAssignee, ErrConcurrentUpdate, ErrNotFound} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ""
}
