package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema crea fb_leads si no existe y agrega las columnas que
// fueron apareciendo con el tiempo (sala, flags de consolidación,
// empresa/cargo). Las tablas expokossodo_eventos y expokossodo_registros
// son del sistema de registro y no se tocan acá.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fb_leads (
			id BIGINT PRIMARY KEY,
			form_id BIGINT NOT NULL,
			page_id BIGINT NOT NULL,
			campaign_id VARCHAR(64),
			adset_id VARCHAR(64),
			ad_id VARCHAR(64),
			campaign_name VARCHAR(255),
			adset_name VARCHAR(255),
			ad_name VARCHAR(255),
			full_name VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(64),
			created_time TIMESTAMPTZ NOT NULL,
			raw_json JSONB NOT NULL,
			ingested_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`ALTER TABLE fb_leads ADD COLUMN IF NOT EXISTS sala VARCHAR(10)`,
		`ALTER TABLE fb_leads ADD COLUMN IF NOT EXISTS empresa VARCHAR(255)`,
		`ALTER TABLE fb_leads ADD COLUMN IF NOT EXISTS cargo VARCHAR(255)`,
		`ALTER TABLE fb_leads ADD COLUMN IF NOT EXISTS procesado BOOLEAN DEFAULT FALSE`,
		`ALTER TABLE fb_leads ADD COLUMN IF NOT EXISTS enviado BOOLEAN DEFAULT FALSE`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error preparando esquema de fb_leads: %w", err)
		}
	}
	return nil
}
