package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidText = errors.New("input is not valid base64")

// EncodeText renders ciphertext for terminals and clipboards
func EncodeText(ciphertext []byte) string {
	return base64.StdEncoding.EncodeToString(ciphertext)
}

// DecodeText parses text produced by EncodeText. Surrounding whitespace
// and line breaks are ignored.
func DecodeText(text string) ([]byte, error) {
	cleaned := strings.Join(strings.Fields(text), "")
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	return data, nil
}
