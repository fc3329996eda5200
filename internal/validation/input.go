package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength = 2
	MaxNameLength = 100

	MinGigTitleLength       = 1
	MaxGigTitleLength       = 100
	MinGigDescriptionLength = 1
	MaxGigDescriptionLength = 2000

	MinBidMessageLength = 1
	MaxBidMessageLength = 1000

	MaxBudget = 100000000.0 // 100 миллионов
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateGigTitle проверяет заголовок гига.
func ValidateGigTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("заголовок гига не может быть пустым")
	}
	return ValidateLength("заголовок", title, MinGigTitleLength, MaxGigTitleLength)
}

// ValidateGigDescription проверяет описание гига.
func ValidateGigDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("описание гига не может быть пустым")
	}
	return ValidateLength("описание", description, MinGigDescriptionLength, MaxGigDescriptionLength)
}

// ValidateBidMessage проверяет сопроводительное сообщение отклика.
func ValidateBidMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("сообщение отклика не может быть пустым")
	}
	return ValidateLength("сообщение", message, MinBidMessageLength, MaxBidMessageLength)
}

// ValidatePrice проверяет, что сумма положительная и в разумных пределах.
func ValidatePrice(fieldName string, price float64) error {
	if price <= 0 {
		return fmt.Errorf("%s должен быть положительным числом", fieldName)
	}
	if price > MaxBudget {
		return fmt.Errorf("%s не может превышать %.0f", fieldName, MaxBudget)
	}
	return nil
}

// ValidateDisplayName проверяет имя пользователя.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	return ValidateLength("имя", name, MinNameLength, MaxNameLength)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}
