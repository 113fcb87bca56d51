package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Константы валидации
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
	MaxTitleLength    = 200
	MaxDescriptionLen = 5000
	OTPCodeLength     = 6

	// DueDateLayout — формат даты дедлайна в запросах: dd-mm-yy.
	DueDateLayout = "02-01-06"
)

var (
	// Мобильный номер: ровно 10 цифр, первая из диапазона 6-9.
	mobileRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	otpRegex    = regexp.MustCompile(`^[0-9]+$`)
	emailRegex  = regexp.MustCompile(`^[a-z0-9._+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateMobile проверяет формат мобильного номера.
func ValidateMobile(mobile string) error {
	if mobile == "" {
		return fmt.Errorf("mobile_no обязателен")
	}
	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("mobile_no должен состоять из 10 цифр и начинаться с 6-9")
	}
	return nil
}

// ValidateOTP проверяет код подтверждения.
func ValidateOTP(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("otp обязателен")
	}
	if !otpRegex.MatchString(code) {
		return fmt.Errorf("otp должен состоять только из цифр")
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("некорректный формат email")
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("name обязателен")
	}
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("name должен быть от %d до %d символов", MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

// ValidatePassword проверяет пароль.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password обязателен")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password должен быть не менее %d символов", MinPasswordLength)
	}
	return nil
}

// ParseDueDate разбирает дату дедлайна в формате dd-mm-yy.
func ParseDueDate(value string) (time.Time, error) {
	due, err := time.Parse(DueDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("due_date должен быть в формате dd-mm-yy")
	}
	return due, nil
}

// ValidateDueDate требует, чтобы дедлайн был строго позже текущей даты.
func ValidateDueDate(value string, now time.Time) (time.Time, error) {
	due, err := ParseDueDate(value)
	if err != nil {
		return time.Time{}, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !due.After(today) {
		return time.Time{}, fmt.Errorf("due_date должен быть позже текущей даты")
	}
	return due, nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// CheckDuplicateKeys отклоняет форму, если какое-либо поле передано
// более одного раза.
func CheckDuplicateKeys(form url.Values) error {
	for key, values := range form {
		if len(values) > 1 {
			return fmt.Errorf("поле %s передано несколько раз", key)
		}
	}
	return nil
}
