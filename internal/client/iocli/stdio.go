package iocli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Stdio — реализация IO поверх стандартных потоков процесса.
type Stdio struct {
	reader *bufio.Reader
}

func NewStdio() *Stdio {
	return &Stdio{reader: bufio.NewReader(os.Stdin)}
}

func (s *Stdio) Println(a ...any) {
	fmt.Println(a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

func (s *Stdio) Errorf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	// после raw-режима курсор остаётся на строке приглашения
	fmt.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(pw), nil
}
