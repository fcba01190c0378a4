package daily

import "errors"

var (
	// ErrUnsupportedSessionType возвращается для типов сессий без комнаты (chat)
	ErrUnsupportedSessionType = errors.New("daily client: session type does not use a call room")

	// ErrUnauthorized возвращается, когда провайдер отклонил API ключ
	ErrUnauthorized = errors.New("daily client: api key rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("daily client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("daily client: invalid response")
)
