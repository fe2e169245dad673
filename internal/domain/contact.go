package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var contactValidator = validator.New()

// Contact канал связи с клиентом: email и/или телефон
type Contact struct {
	Email string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"required_without=Email,omitempty,e164"`
}

// ClientDetails имя клиента и контакт
type ClientDetails struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Contact Contact `json:"contact"`
}

// NormalizeContact убирает пробелы и разделители из телефона
func NormalizeContact(c Contact) Contact {
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = normalizePhone(c.Phone)
	return c
}

// Normalize возвращает копию с нормализованными полями
func (d ClientDetails) Normalize() ClientDetails {
	d.Name = strings.TrimSpace(d.Name)
	d.Contact = NormalizeContact(d.Contact)
	return d
}

// Validate проверяет имя и хотя бы один корректный канал связи
func (d ClientDetails) Validate() error {
	if err := contactValidator.Struct(d); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describeValidation(err))
	}
	return nil
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range phone {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}

	normalized := b.String()
	if strings.HasPrefix(normalized, "00") {
		normalized = "+" + normalized[2:]
	}
	return normalized
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}
