package domain

// Actor пользователь, выполняющий операцию
// Роль определяется внешним сервисом авторизации, ядро проверяет только флаг CanEdit
type Actor struct {
	UserID  int64
	CanEdit bool
}
