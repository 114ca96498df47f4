package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubRow entrega una fila fija a scanRegistrant, en el mismo orden de
// columnas que los SELECT de registros.
type stubRow struct {
	values []any
}

func (s stubRow) Scan(dest ...any) error {
	if len(dest) != len(s.values) {
		return fmt.Errorf("esperaba %d columnas, scan pidió %d", len(s.values), len(dest))
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = s.values[i].(int64)
		case *string:
			*v = s.values[i].(string)
		case *bool:
			*v = s.values[i].(bool)
		case *[]byte:
			if s.values[i] != nil {
				*v = s.values[i].([]byte)
			}
		case *time.Time:
			*v = s.values[i].(time.Time)
		case *sql.NullString:
			if s.values[i] == nil {
				*v = sql.NullString{}
			} else {
				*v = sql.NullString{String: s.values[i].(string), Valid: true}
			}
		case *sql.NullTime:
			if s.values[i] == nil {
				*v = sql.NullTime{}
			} else {
				*v = sql.NullTime{Time: s.values[i].(time.Time), Valid: true}
			}
		default:
			return fmt.Errorf("destino no soportado %T", d)
		}
	}
	return nil
}

func TestScanRegistrant(t *testing.T) {
	registrado := time.Date(2025, 8, 21, 10, 0, 0, 0, time.UTC)
	qrGenerado := time.Date(2025, 8, 21, 10, 0, 5, 0, time.UTC)

	t.Run("fila completa", func(t *testing.T) {
		row := stubRow{values: []any{
			int64(42),                // id
			"Ana Torres",             // nombres
			"ana@acme.pe",            // correo
			"Acme",                   // empresa
			"Analista",               // cargo
			"999888777",              // numero
			"Conocer equipos nuevos", // expectativas
			[]byte(`[1, 5]`),         // eventos_seleccionados
			"ANA|999888777|Analista|Acme|1756800000", // qr_code
			qrGenerado, // qr_generado_at
			true,       // asistencia_general_confirmada
			false,      // confirmado
			registrado, // fecha_registro
		}}

		reg, err := scanRegistrant(row)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), reg.ID)
		assert.Equal(t, "Ana Torres", reg.Name)
		assert.Equal(t, "Conocer equipos nuevos", reg.Expectations)
		assert.Equal(t, []int64{1, 5}, reg.SelectedEvents)
		assert.Equal(t, qrGenerado, reg.QRGeneratedAt)
		assert.True(t, reg.AttendanceConfirmed)
		assert.False(t, reg.Confirmed)
		assert.Equal(t, registrado, reg.RegisteredAt)
	})

	t.Run("registro del formulario web sin QR ni opcionales", func(t *testing.T) {
		row := stubRow{values: []any{
			int64(7), "Ana Torres", "ana@acme.pe",
			nil, nil, nil, nil, // empresa, cargo, numero, expectativas
			[]byte(`[3]`),
			nil, nil, // qr_code, qr_generado_at
			false, false, registrado,
		}}

		reg, err := scanRegistrant(row)
		assert.NoError(t, err)
		assert.Empty(t, reg.Company)
		assert.Empty(t, reg.Expectations)
		assert.Empty(t, reg.QRCode)
		assert.True(t, reg.QRGeneratedAt.IsZero())
		assert.Equal(t, []int64{3}, reg.SelectedEvents)
	})

	t.Run("eventos corruptos", func(t *testing.T) {
		row := stubRow{values: []any{
			int64(7), "Ana", "ana@acme.pe",
			nil, nil, nil, nil,
			[]byte(`{no es json`),
			nil, nil,
			false, false, registrado,
		}}

		_, err := scanRegistrant(row)
		assert.Error(t, err)
	})
}
