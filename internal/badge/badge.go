// Package badge genera el payload del código QR que se imprime en la
// credencial del registrado y lo renderiza como imagen.
package badge

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Solo letras, incluyendo acentos y ñ; el resto se descarta para armar el
// prefijo de 3 letras.
var nonLetterRe = regexp.MustCompile(`[^a-zA-ZáéíóúÁÉÍÓÚñÑ]`)

const pngSize = 256

// GenerateText arma el payload con formato
// {3_LETRAS}|{NUMERO}|{CARGO}|{EMPRESA}|{TIMESTAMP}. Los pipes dentro de
// los campos se reemplazan por guiones para no romper el conteo de campos.
func GenerateText(name, phone, role, company string, ts time.Time) string {
	letters := []rune(nonLetterRe.ReplaceAllString(strings.ToUpper(name), ""))
	if len(letters) > 3 {
		letters = letters[:3]
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}

	return fmt.Sprintf("%s|%s|%s|%s|%d",
		string(letters),
		sanitize(phone),
		sanitize(role),
		sanitize(company),
		ts.Unix(),
	)
}

// RenderPNG codifica el payload como QR escaneable.
func RenderPNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, pngSize)
	if err != nil {
		return nil, fmt.Errorf("error generando QR: %w", err)
	}
	return png, nil
}

func sanitize(field string) string {
	return strings.ReplaceAll(field, "|", "-")
}
