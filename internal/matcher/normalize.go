package matcher

import (
	"regexp"
	"strings"
)

// El Ads Manager agrega sufijos tipo "- copia", "- copia 2" al duplicar
// anuncios; para comparar títulos hay que sacarlos.
var copySuffixRe = regexp.MustCompile(`(?i)\s*-\s*copia.*$`)

// prefixLen corta el título para que variantes largas del mismo anuncio
// comparen igual.
const prefixLen = 40

// NormalizePrefix limpia sufijos de copia y corta a 40 caracteres. Solo se
// usa para comparar, nunca se persiste. Es idempotente.
func NormalizePrefix(title string) string {
	if title == "" {
		return ""
	}
	cleaned := copySuffixRe.ReplaceAllString(strings.TrimSpace(title), "")
	runes := []rune(cleaned)
	if len(runes) > prefixLen {
		runes = runes[:prefixLen]
	}
	return strings.TrimSpace(strings.ToLower(string(runes)))
}

// NormalizeColon toma el texto antes de los dos puntos, limpio y en
// minúsculas. ok=false cuando el título no tiene ':' — distinto de un
// prefijo vacío — para que el caller pueda saltarse este método.
func NormalizeColon(title string) (string, bool) {
	idx := strings.Index(title, ":")
	if idx < 0 {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(title[:idx])), true
}
