package api

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNombreRequerido  = errors.New("nombre y apellido son obligatorios")
	ErrEmailInvalido    = errors.New("email inválido")
	ErrTelefonoInvalido = errors.New("teléfono inválido")
	ErrFechaInvalida    = errors.New("fecha inválida")
)

// emailRegex: una @ y dominio con punto.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRegex.MatchString(email) {
		return ErrEmailInvalido
	}
	return nil
}

// ValidateTelefono accepts digits, spaces and the separators people actually
// type (+, -, parentheses, dots), with at least 6 digits.
func ValidateTelefono(tel string) error {
	tel = strings.TrimSpace(tel)
	digits := 0
	for _, r := range tel {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return ErrTelefonoInvalido
		}
	}
	if digits < 6 {
		return ErrTelefonoInvalido
	}
	return nil
}

// ParseFecha parses a YYYY-MM-DD query/body value.
func ParseFecha(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrFechaInvalida
	}
	return t, nil
}
