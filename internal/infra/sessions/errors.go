package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истек срок хранения
	ErrSessionNotFound = errors.New("sessions: session not found")

	// ErrSessionExists возвращается при повторном создании сессии с тем же ID
	ErrSessionExists = errors.New("sessions: session already exists")

	// ErrVersionConflict возвращается, когда сохраненная версия сессии отличается от ожидаемой
	ErrVersionConflict = errors.New("sessions: session version conflict")

	// ErrEncode возвращается при ошибке сериализации сессии
	ErrEncode = errors.New("sessions: failed to encode session")

	// ErrDecode возвращается при ошибке чтения документа сессии
	ErrDecode = errors.New("sessions: failed to decode session")

	// ErrStore возвращается при ошибках хранилища
	ErrStore = errors.New("sessions: store error")
)
