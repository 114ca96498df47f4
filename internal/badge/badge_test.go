package badge

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedTS = time.Unix(1756800000, 0)

func TestGenerateText(t *testing.T) {
	t.Run("formato completo", func(t *testing.T) {
		got := GenerateText("Ana María Torres", "999888777", "Jefa de Laboratorio", "Kossodo", fixedTS)
		assert.Equal(t, "ANA|999888777|Jefa de Laboratorio|Kossodo|1756800000", got)
	})

	t.Run("siempre cinco campos", func(t *testing.T) {
		got := GenerateText("Ana", "999", "", "", fixedTS)
		assert.Equal(t, 4, strings.Count(got, "|"))
		assert.Equal(t, fmt.Sprintf("ANA|999|||%d", fixedTS.Unix()), got)
	})

	t.Run("descarta caracteres no alfabéticos del nombre", func(t *testing.T) {
		got := GenerateText("  a1n-a ", "1", "", "", fixedTS)
		assert.True(t, strings.HasPrefix(got, "ANA|"))
	})

	t.Run("conserva acentos en el prefijo", func(t *testing.T) {
		got := GenerateText("Ángel Pérez", "1", "", "", fixedTS)
		assert.True(t, strings.HasPrefix(got, "ÁNG|"))
	})

	t.Run("rellena con X los nombres cortos", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(GenerateText("Jo", "1", "", "", fixedTS), "JOX|"))
		assert.True(t, strings.HasPrefix(GenerateText("", "1", "", "", fixedTS), "XXX|"))
	})

	t.Run("los pipes de los campos se vuelven guiones", func(t *testing.T) {
		got := GenerateText("Ana", "99|88", "Q|A", "Acme|SA", fixedTS)
		assert.Equal(t, 4, strings.Count(got, "|"))
		assert.Contains(t, got, "99-88")
		assert.Contains(t, got, "Acme-SA")
	})
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG("ANA|999|Cargo|Empresa|1756800000")
	assert.NoError(t, err)
	// Firma PNG estándar.
	assert.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
