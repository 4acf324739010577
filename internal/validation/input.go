package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Константы валидации
const (
	MinUsernameLength         = 3
	MaxUsernameLength         = 30
	MinJobTitleLength         = 3
	MaxJobTitleLength         = 200
	MinJobDescriptionLength   = 10
	MaxJobDescriptionLength   = 5000
	MaxCoverLetterLength      = 2000
	MaxRejectionReasonLength  = 1000
	MaxCategoryLength         = 100
	MaxLocationLength         = 100
	MinCancellationReason     = 3
	MaxCancellationReason     = 1000
	MinDisputeReasonLength    = 10
	MaxDisputeReasonLength    = 2000
	MaxPayoutDetailsLength    = 500
	MaxRequiredPeople         = 1000
)

// MaxSalaryAmount верхняя граница суммы оплаты (100 миллионов).
var MaxSalaryAmount = decimal.NewFromInt(100000000)

// ValidateLength проверяет длину строки.
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

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateJobTitle проверяет заголовок вакансии.
func ValidateJobTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок вакансии обязателен")
	}
	return ValidateLength("заголовок вакансии", strings.TrimSpace(title), MinJobTitleLength, MaxJobTitleLength)
}

// ValidateJobDescription проверяет описание вакансии.
func ValidateJobDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание вакансии обязательно")
	}
	return ValidateLength("описание вакансии", strings.TrimSpace(description), MinJobDescriptionLength, MaxJobDescriptionLength)
}

// ValidateCoverLetter проверяет сопроводительное письмо отклика.
// Письмо опционально, но если передано, ограничивается по длине.
func ValidateCoverLetter(coverLetter *string) error {
	if coverLetter == nil || *coverLetter == "" {
		return nil
	}
	return ValidateLength("сопроводительное письмо", strings.TrimSpace(*coverLetter), 0, MaxCoverLetterLength)
}

// ValidateRejectionReason проверяет причину отклонения отклика.
// Причина опциональна, но если передана, ограничивается по длине.
func ValidateRejectionReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return nil
	}
	return ValidateLength("причина отклонения", strings.TrimSpace(reason), 0, MaxRejectionReasonLength)
}

// ValidateSalaryAmount проверяет сумму оплаты.
func ValidateSalaryAmount(amount *decimal.Decimal) error {
	if amount == nil {
		return nil
	}
	if amount.IsNegative() {
		return fmt.Errorf("сумма оплаты не может быть отрицательной")
	}
	if amount.GreaterThan(MaxSalaryAmount) {
		return fmt.Errorf("сумма оплаты не может превышать %s", MaxSalaryAmount.String())
	}
	return nil
}

// ValidateRequiredPeople проверяет требуемое число исполнителей.
func ValidateRequiredPeople(count int) error {
	if count < 1 {
		return fmt.Errorf("требуется хотя бы один исполнитель")
	}
	if count > MaxRequiredPeople {
		return fmt.Errorf("число исполнителей не может превышать %d", MaxRequiredPeople)
	}
	return nil
}

// ValidateCancellationReason проверяет причину отмены заказа.
func ValidateCancellationReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("причина отмены обязательна")
	}
	return ValidateLength("причина отмены", strings.TrimSpace(reason), MinCancellationReason, MaxCancellationReason)
}

// ValidateDisputeReason проверяет причину открытия спора.
func ValidateDisputeReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("причина спора обязательна")
	}
	return ValidateLength("причина спора", strings.TrimSpace(reason), MinDisputeReasonLength, MaxDisputeReasonLength)
}

// ValidatePayoutDetails проверяет реквизиты для вывода средств.
func ValidatePayoutDetails(details string) error {
	if strings.TrimSpace(details) == "" {
		return fmt.Errorf("реквизиты для вывода обязательны")
	}
	return ValidateLength("реквизиты для вывода", strings.TrimSpace(details), 0, MaxPayoutDetailsLength)
}

// ValidateLocation проверяет местоположение.
func ValidateLocation(location *string) error {
	if location != nil && *location != "" {
		return ValidateLength("местоположение", strings.TrimSpace(*location), 0, MaxLocationLength)
	}
	return nil
}

// ValidateCategory проверяет категорию вакансии.
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("категория обязательна")
	}
	return ValidateLength("категория", strings.TrimSpace(category), 0, MaxCategoryLength)
}
