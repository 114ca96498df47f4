package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kossodo/expokossodo-leads/internal/entity"
)

// RegistrantRepository son las lecturas de registros fuera de la
// transacción de consolidación (endpoint del QR).
type RegistrantRepository struct {
	DB *sql.DB
}

func NewRegistrantRepository(db *sql.DB) *RegistrantRepository {
	return &RegistrantRepository{DB: db}
}

// FindByEmail devuelve (nil, nil) si no hay registro con ese correo.
func (r *RegistrantRepository) FindByEmail(ctx context.Context, email string) (*entity.Registrant, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, nombres, correo, empresa, cargo, numero, expectativas,
		       eventos_seleccionados, qr_code, qr_generado_at,
		       asistencia_general_confirmada, confirmado, fecha_registro
		FROM expokossodo_registros
		WHERE correo = $1
	`, email)

	reg, err := scanRegistrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return reg, err
}
