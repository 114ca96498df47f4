package entity

import (
	"errors"
	"time"
)

var ErrDuplicateEmail = errors.New("ya existe un registro con ese correo")

// Registrant es el registro consolidado por persona en
// expokossodo_registros. Se crea con el primer lead que matchea un evento
// y después solo acumula IDs de eventos; nunca se borra desde acá.
type Registrant struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombres"`
	Email        string `json:"correo"`
	Company      string `json:"empresa"`
	Role         string `json:"cargo"`
	Phone        string `json:"numero"`
	Expectations string `json:"expectativas"`

	// SelectedEvents no admite duplicados; el orden no importa.
	SelectedEvents []int64 `json:"eventos_seleccionados"`

	QRCode        string    `json:"qr_code"`
	QRGeneratedAt time.Time `json:"qr_generado_at"`

	AttendanceConfirmed bool `json:"asistencia_general_confirmada"`
	Confirmed           bool `json:"confirmado"`

	RegisteredAt time.Time `json:"fecha_registro"`
}

// HasEvent indica si el evento ya está en el set de seleccionados.
func (r *Registrant) HasEvent(eventID int64) bool {
	for _, id := range r.SelectedEvents {
		if id == eventID {
			return true
		}
	}
	return false
}
