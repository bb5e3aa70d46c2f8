package models

// Role определяет уровень доступа текущей сессии
type Role string

const (
	// RoleAnonymous - не аутентифицирован, только чтение списка аккаунтов
	RoleAnonymous Role = "anonymous"
	// RoleAdmin - полный доступ к мутациям хранилища и выпуску voucher-ов
	RoleAdmin Role = "admin"
	// RoleGuest - доступ к гостевому sub-vault через погашенный voucher
	RoleGuest Role = "guest"
)

// Session — процессное состояние; между запусками CLI восстанавливается
// из подписанного локального токена. Явно передается в операции хранилища.
type Session struct {
	Role            Role   // текущая роль
	MasterKey       string // master key гостевого sub-vault, только в памяти
	SelectedAccount string // курсор UI, не граница безопасности
}

// NewSession создает анонимную сессию
func NewSession() *Session {
	return &Session{Role: RoleAnonymous}
}

// IsAdmin сообщает, разрешены ли мутации
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// IsAuthenticated сообщает, прошла ли сессия любую аутентификацию
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Role != RoleAnonymous
}

// Logout сбрасывает сессию в анонимное состояние.
// Серверная сторона не затрагивается: voucher-ы и admin_hash остаются.
func (s *Session) Logout() {
	s.Role = RoleAnonymous
	s.MasterKey = ""
	s.SelectedAccount = ""
}
