package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	codeCharacters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	saleCodePrefix = "QS-"
)

// GenerateSaleCode gera o código público da venda, ex.: QS-7KD2MX
func GenerateSaleCode() (string, error) {
	id, err := gonanoid.Generate(codeCharacters, 6)
	if err != nil {
		return "", err
	}
	return saleCodePrefix + id, nil
}
