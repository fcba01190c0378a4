package payhere

import "errors"

var (
	// ErrUnauthorized возвращается, когда шлюз отклонил OAuth учетные данные
	ErrUnauthorized = errors.New("payhere client: oauth token request rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payhere client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("payhere client: invalid response")
)
