package iocli

//go:generate moq -out io_mock.go . IO

// IO абстрагирует терминальный ввод-вывод для CLI-команд.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// Errorf пишет сообщение об ошибке в stderr.
	Errorf(format string, a ...any)
	// ReadInput печатает приглашение и читает одну строку из stdin.
	ReadInput(prompt string) (string, error)
	// ReadPassword печатает приглашение и читает строку без эха.
	ReadPassword(prompt string) (string, error)
}
