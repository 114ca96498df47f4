// Package graphapi habla con el Graph API de Facebook: lead individual,
// nombres de campaña/adset/anuncio (Marketing API) y listado paginado de
// leads de un formulario.
package graphapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/kossodo/expokossodo-leads/internal/infra/http/middleware"
)

const DefaultBaseURL = "https://graph.facebook.com/v23.0"

// Campos que se piden del lead completo.
const leadFields = "id,created_time,field_data,ad_id,adset_id,campaign_id,form_id,platform"

const (
	requestTimeout = 10 * time.Second
	pageTimeout    = 20 * time.Second
	// Pausa fija entre páginas del listado, para no pelearse con el rate
	// limit del Marketing API.
	pageInterval = 500 * time.Millisecond
)

// ErrNoMarketingToken: sin MKT_TOKEN no hay lookup de nombres. El caller lo
// trata como nombre ausente, no como falla.
var ErrNoMarketingToken = errors.New("MKT_TOKEN no configurado")

type Client struct {
	baseURL   string
	pageToken string
	mktToken  string
	http      *http.Client
	pager     *rate.Limiter
}

func NewClient(baseURL, pageToken, mktToken string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		pageToken: pageToken,
		mktToken:  mktToken,
		http:      &http.Client{},
		pager:     rate.NewLimiter(rate.Every(pageInterval), 1),
	}
}

// FetchLead trae el lead completo autenticado con el page token.
func (c *Client) FetchLead(ctx context.Context, leadgenID string) (*LeadPayload, error) {
	params := url.Values{}
	params.Set("access_token", c.pageToken)
	params.Set("fields", leadFields)

	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.baseURL, leadgenID), params, requestTimeout)
	if err != nil {
		middleware.RecordGraphAPIError("lead")
		return nil, err
	}

	var payload LeadPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error decodificando lead: %w", err)
	}
	payload.Raw = body
	return &payload, nil
}

// FetchObjectName devuelve el nombre de una campaña, adset o anuncio vía
// Marketing API.
func (c *Client) FetchObjectName(ctx context.Context, objectID string) (string, error) {
	if c.mktToken == "" {
		return "", ErrNoMarketingToken
	}

	params := url.Values{}
	params.Set("access_token", c.mktToken)
	params.Set("fields", "name")

	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.baseURL, objectID), params, requestTimeout)
	if err != nil {
		middleware.RecordGraphAPIError("object_name")
		return "", err
	}

	var resp objectNameResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("error decodificando nombre: %w", err)
	}
	return resp.Name, nil
}

// FormLeadsOptions acota el listado histórico de un formulario.
type FormLeadsOptions struct {
	Since string // YYYY-MM-DD o timestamp unix
	Until string
	Limit int // leads por página
}

// FetchFormLeads recorre todas las páginas de leads del formulario y llama
// fn por cada referencia. Devuelve la cantidad de páginas leídas. Un error
// de fn corta el recorrido.
func (c *Client) FetchFormLeads(ctx context.Context, formID string, opts FormLeadsOptions, fn func(LeadRef) error) (int, error) {
	params := url.Values{}
	params.Set("access_token", c.pageToken)
	params.Set("fields", "id,created_time")
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Since != "" {
		params.Set("since", opts.Since)
	}
	if opts.Until != "" {
		params.Set("until", opts.Until)
	}

	endpoint := fmt.Sprintf("%s/%s/leads", c.baseURL, formID)
	pages := 0

	for {
		if err := c.pager.Wait(ctx); err != nil {
			return pages, err
		}

		body, err := c.get(ctx, endpoint, params, pageTimeout)
		if err != nil {
			middleware.RecordGraphAPIError("form_leads")
			return pages, fmt.Errorf("error en página %d: %w", pages+1, err)
		}
		pages++

		var page leadsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return pages, fmt.Errorf("error decodificando página %d: %w", pages, err)
		}

		for _, ref := range page.Data {
			if err := fn(ref); err != nil {
				return pages, err
			}
		}

		if page.Paging.Next == "" || page.Paging.Cursors.After == "" {
			return pages, nil
		}
		params.Set("after", page.Paging.Cursors.After)
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error de conexión con Graph API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error leyendo respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("graph api respondió %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
