package entity

import "time"

// Event es una charla del programa de ExpoKossodo. Es data de referencia:
// este servicio la lee completa en cada consolidación y nunca la modifica.
type Event struct {
	ID    int64     `json:"id"`
	Title string    `json:"titulo_charla"`
	Date  time.Time `json:"fecha"`
	Sala  string    `json:"sala"` // "sala1".."sala4"
}
