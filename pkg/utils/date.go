package utils

import (
	"fmt"
	"time"
)

func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(time.DateOnly, dateStr, time.Local)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// ParseDateRange converte start/end (YYYY-MM-DD) em um intervalo [início, fim) com o dia final incluso
func ParseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return nil, nil, fmt.Errorf("data inicial inválida: %w", err)
	}

	end, err := ParseDate(endStr)
	if err != nil {
		return nil, nil, fmt.Errorf("data final inválida: %w", err)
	}

	if end != nil {
		next := end.AddDate(0, 0, 1)
		end = &next
	}

	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, fmt.Errorf("data inicial deve ser anterior à data final")
	}

	return start, end, nil
}

// StartOfDay trunca t para a meia-noite no fuso de t
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
