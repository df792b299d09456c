package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session.store: booking session not found")

	// ErrStore возвращается при ошибках взаимодействия с Redis
	ErrStore = errors.New("session.store: storage error")
)
