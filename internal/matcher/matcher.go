package matcher

import (
	"strings"

	"github.com/kossodo/expokossodo-leads/internal/entity"
)

// Status es el resultado tipado del matching: el caller decide con un
// switch en vez de chequear valores nulos.
type Status int

const (
	// Matched: se encontró el evento, Result.EventID es válido.
	Matched Status = iota
	// Unmapped: el adset o la sala no están en las tablas de mapeo. Es un
	// problema de data del anuncio, no un error fatal.
	Unmapped
	// NotFound: día y sala mapearon pero ningún evento coincide por título.
	NotFound
)

type Result struct {
	Status  Status
	EventID int64
	// Method indica qué pasada encontró el evento: "prefijo" o "dos_puntos".
	Method string
}

// Los adsets se nombran por día de la expo y los anuncios llevan prefijo de
// sala. Son etiquetas fijas de esta edición.
var dayDates = map[string]string{
	"dia 1": "2025-09-02",
	"dia 2": "2025-09-03",
	"dia 3": "2025-09-04",
}

var salaNames = map[string]string{
	"s1": "sala1",
	"s2": "sala2",
	"s3": "sala3",
	"s4": "sala4",
}

const dateLayout = "2006-01-02"

// FindEvent resuelve el evento correspondiente a un anuncio en dos pasadas
// ordenadas: primero igualdad del título normalizado a 40 caracteres, y si
// no hay match, igualdad del texto antes de los dos puntos. Dentro de cada
// pasada gana el primer candidato en el orden recibido.
func FindEvent(adTitle, adsetLabel, salaLabel string, events []entity.Event) Result {
	targetDate := dayDates[strings.ToLower(adsetLabel)]
	targetSala := salaNames[strings.ToLower(salaLabel)]

	if targetDate == "" || targetSala == "" {
		return Result{Status: Unmapped}
	}

	// Intento #1: prefijo de 40 caracteres
	leadPrefix := NormalizePrefix(adTitle)
	for _, ev := range events {
		if eventDate(ev) == targetDate &&
			ev.Sala == targetSala &&
			NormalizePrefix(ev.Title) == leadPrefix {
			return Result{Status: Matched, EventID: ev.ID, Method: "prefijo"}
		}
	}

	// Intento #2: texto antes de los dos puntos
	leadColon, ok := NormalizeColon(adTitle)
	if !ok {
		return Result{Status: NotFound}
	}
	for _, ev := range events {
		evColon, ok := NormalizeColon(ev.Title)
		if !ok {
			continue
		}
		if eventDate(ev) == targetDate &&
			ev.Sala == targetSala &&
			evColon == leadColon {
			return Result{Status: Matched, EventID: ev.ID, Method: "dos_puntos"}
		}
	}

	return Result{Status: NotFound}
}

func eventDate(ev entity.Event) string {
	if ev.Date.IsZero() {
		return ""
	}
	return ev.Date.Format(dateLayout)
}
