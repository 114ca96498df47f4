package entity

import (
	"time"
)

// Lead representa un lead de Facebook Lead Ads ya enriquecido con los
// nombres de campaña/adset/anuncio del Marketing API. El ID viene de
// Facebook y es estable: re-ingestar el mismo lead sobreescribe el
// enriquecimiento pero nunca cambia la clave primaria.
type Lead struct {
	ID     int64 `json:"id"`
	FormID int64 `json:"form_id"`
	PageID int64 `json:"page_id"`

	CampaignID string `json:"campaign_id,omitempty"`
	AdsetID    string `json:"adset_id,omitempty"`
	AdID       string `json:"ad_id,omitempty"`

	// Enriquecimiento desde Marketing API. Pueden quedar vacíos si el
	// token no está configurado o la llamada falla.
	CampaignName string `json:"campaign_name,omitempty"`
	AdsetName    string `json:"adset_name,omitempty"`

	// AdName ya viene sin el prefijo de sala ("S3 - ").
	AdName string `json:"ad_name,omitempty"`
	Sala   string `json:"sala,omitempty"` // "S3", o vacío si el anuncio no lo trae

	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Empresa  string `json:"empresa,omitempty"`
	Cargo    string `json:"cargo,omitempty"`

	CreatedTime time.Time `json:"created_time"`
	RawJSON     []byte    `json:"-"`

	// Flags de consolidación: Procesado marca que se intentó, Enviado que
	// el registro quedó consolidado. Enviado=false es la cola de trabajo
	// del reprocesamiento por lotes.
	Procesado bool `json:"procesado"`
	Enviado   bool `json:"enviado"`
}
