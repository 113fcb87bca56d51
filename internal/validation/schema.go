package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldFormat проверяет формат значения одного поля.
type FieldFormat func(value string) error

// Schema описывает требования к форме запроса декларативно: список
// обязательных полей и проверки формата. Оценивается один раз на маршрут
// вместо разрозненных проверок в каждом хэндлере.
type Schema struct {
	Required []string
	Formats  map[string]FieldFormat
}

// Validate проверяет форму целиком: дубликаты ключей, наличие обязательных
// полей, форматы. Первая найденная проблема прерывает проверку.
func (s Schema) Validate(form url.Values) error {
	if err := CheckDuplicateKeys(form); err != nil {
		return err
	}

	for _, field := range s.Required {
		if strings.TrimSpace(form.Get(field)) == "" {
			return fmt.Errorf("%s обязателен", field)
		}
	}

	for field, check := range s.Formats {
		value := form.Get(field)
		if value == "" {
			// Формат проверяем только для переданных полей; обязательность
			// контролирует Required.
			continue
		}
		if err := check(value); err != nil {
			return err
		}
	}

	return nil
}
