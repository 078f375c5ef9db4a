package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera um id curto alfanumérico
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}

// GenerateRecordID gera ids de registros com prefixo legível, ex: bkg_h2K9xQ1mZp
func GenerateRecordID(prefix string) (string, error) {
	id, err := gonanoid.Generate(characters, 10)
	if err != nil {
		return "", err
	}
	return prefix + "_" + id, nil
}
