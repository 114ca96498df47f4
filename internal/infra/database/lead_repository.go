package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kossodo/expokossodo-leads/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert guarda el lead con lectura-y-escritura explícita dentro de una
// transacción: si el ID ya existe solo se pisa el enriquecimiento, la
// clave primaria nunca cambia.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error abriendo transacción: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT TRUE FROM fb_leads WHERE id = $1 FOR UPDATE`, lead.ID,
	).Scan(&exists)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fb_leads
				(id, form_id, page_id, campaign_id, adset_id, ad_id,
				 campaign_name, adset_name, ad_name, sala,
				 full_name, email, phone, empresa, cargo,
				 created_time, raw_json)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			        $11, $12, $13, $14, $15, $16, $17)
		`,
			lead.ID, lead.FormID, lead.PageID,
			nullString(lead.CampaignID), nullString(lead.AdsetID), nullString(lead.AdID),
			nullString(lead.CampaignName), nullString(lead.AdsetName), nullString(lead.AdName),
			nullString(lead.Sala),
			nullString(lead.FullName), nullString(lead.Email), nullString(lead.Phone),
			nullString(lead.Empresa), nullString(lead.Cargo),
			lead.CreatedTime, lead.RawJSON,
		)
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE fb_leads SET
				campaign_id = $2, adset_id = $3, ad_id = $4,
				campaign_name = $5, adset_name = $6, ad_name = $7, sala = $8,
				full_name = $9, email = $10, phone = $11,
				empresa = $12, cargo = $13, raw_json = $14
			WHERE id = $1
		`,
			lead.ID,
			nullString(lead.CampaignID), nullString(lead.AdsetID), nullString(lead.AdID),
			nullString(lead.CampaignName), nullString(lead.AdsetName), nullString(lead.AdName),
			nullString(lead.Sala),
			nullString(lead.FullName), nullString(lead.Email), nullString(lead.Phone),
			nullString(lead.Empresa), nullString(lead.Cargo),
			lead.RawJSON,
		)
	default:
		return fmt.Errorf("error verificando lead %d: %w", lead.ID, err)
	}

	if err != nil {
		return fmt.Errorf("error guardando lead %d: %w", lead.ID, err)
	}
	return tx.Commit()
}

// FindPending devuelve los leads con enviado=false, más antiguos primero.
func (r *LeadRepository) FindPending(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, form_id, page_id,
		       COALESCE(campaign_id, ''), COALESCE(adset_id, ''), COALESCE(ad_id, ''),
		       COALESCE(campaign_name, ''), COALESCE(adset_name, ''), COALESCE(ad_name, ''),
		       COALESCE(sala, ''),
		       COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(empresa, ''), COALESCE(cargo, ''),
		       created_time, procesado, enviado
		FROM fb_leads
		WHERE enviado = FALSE
		ORDER BY created_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(
			&l.ID, &l.FormID, &l.PageID,
			&l.CampaignID, &l.AdsetID, &l.AdID,
			&l.CampaignName, &l.AdsetName, &l.AdName,
			&l.Sala,
			&l.FullName, &l.Email, &l.Phone,
			&l.Empresa, &l.Cargo,
			&l.CreatedTime, &l.Procesado, &l.Enviado,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
