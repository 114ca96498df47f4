package graphapi

import "encoding/json"

// FieldValue es un campo del formulario tal como lo entrega Lead Ads.
type FieldValue struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// LeadPayload es el lead completo del Graph API. Raw guarda el body
// original para persistirlo junto al lead.
type LeadPayload struct {
	ID          string       `json:"id"`
	CreatedTime string       `json:"created_time"`
	FieldData   []FieldValue `json:"field_data"`
	AdID        string       `json:"ad_id"`
	AdsetID     string       `json:"adset_id"`
	CampaignID  string       `json:"campaign_id"`
	FormID      string       `json:"form_id"`
	Platform    string       `json:"platform"`

	Raw json.RawMessage `json:"-"`
}

// FieldMap devuelve el primer valor de cada campo del formulario.
func (p *LeadPayload) FieldMap() map[string]string {
	m := make(map[string]string, len(p.FieldData))
	for _, f := range p.FieldData {
		if len(f.Values) > 0 {
			m[f.Name] = f.Values[0]
		} else {
			m[f.Name] = ""
		}
	}
	return m
}

// LeadRef es la versión mínima que devuelve el listado paginado de un
// formulario.
type LeadRef struct {
	ID          string `json:"id"`
	CreatedTime string `json:"created_time"`
}

type objectNameResponse struct {
	Name string `json:"name"`
}

type leadsPage struct {
	Data   []LeadRef `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}
