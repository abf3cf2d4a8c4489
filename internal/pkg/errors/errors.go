package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись не найдена или доступ к ней запрещен
	// без раскрытия факта существования.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный пароль).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав или аккаунт деактивирован.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для некорректных входных данных и невыполнимых запросов.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния: повторный ответ,
	// уже завершенная попытка, занятый email.
	ErrConflict = errors.New("resource state conflict")
)
