package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kossodo/expokossodo-leads/internal/entity"
	"github.com/kossodo/expokossodo-leads/internal/usecase"
)

// Store implementa la transacción de consolidación sobre Postgres. La
// tabla de eventos y la de registros pertenecen al sistema de registro de
// ExpoKossodo; acá solo se leen/escriben, nunca se crean.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// WithinTx corre fn dentro de una transacción con commit/rollback manual.
// Cualquier error de fn deshace todos los writes del lead.
func (s *Store) WithinTx(ctx context.Context, fn func(tx usecase.ConsolidationTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error abriendo transacción: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (y el rollback también falló: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error en commit: %w", err)
	}
	return nil
}

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) FindAllEvents(ctx context.Context) ([]entity.Event, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, titulo_charla, fecha, sala FROM expokossodo_eventos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.Event
	for rows.Next() {
		var ev entity.Event
		var fecha sql.NullTime
		var sala sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Title, &fecha, &sala); err != nil {
			return nil, err
		}
		if fecha.Valid {
			ev.Date = fecha.Time
		}
		ev.Sala = sala.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (t *txStore) FindRegistrantByEmail(ctx context.Context, email string) (*entity.Registrant, error) {
	row := t.tx.QueryRowContext(ctx, `
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

func (t *txStore) UpdateRegistrantEvents(ctx context.Context, registrantID int64, eventIDs []int64) error {
	eventos, err := json.Marshal(eventIDs)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx, `
		UPDATE expokossodo_registros
		SET eventos_seleccionados = $1
		WHERE id = $2
	`, eventos, registrantID)
	return err
}

func (t *txStore) CreateRegistrant(ctx context.Context, r *entity.Registrant) error {
	eventos, err := json.Marshal(r.SelectedEvents)
	if err != nil {
		return err
	}

	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO expokossodo_registros
			(nombres, correo, empresa, cargo, numero, expectativas,
			 eventos_seleccionados, qr_code, qr_generado_at,
			 asistencia_general_confirmada, confirmado, fecha_registro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, FALSE, $10)
		RETURNING id
	`,
		r.Name,
		r.Email,
		r.Company,
		r.Role,
		r.Phone,
		r.Expectations,
		eventos,
		r.QRCode,
		r.QRGeneratedAt,
		r.RegisteredAt,
	).Scan(&r.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (t *txStore) MarkLeadSent(ctx context.Context, leadID int64) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE fb_leads
		SET procesado = TRUE, enviado = TRUE
		WHERE id = $1
	`, leadID)
	return err
}

// scanRegistrant funciona con *sql.Row y con *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistrant(row rowScanner) (*entity.Registrant, error) {
	var r entity.Registrant
	var eventos []byte
	var empresa, cargo, numero, expectativas, qr sql.NullString
	var qrGeneradoAt sql.NullTime

	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&empresa,
		&cargo,
		&numero,
		&expectativas,
		&eventos,
		&qr,
		&qrGeneradoAt,
		&r.AttendanceConfirmed,
		&r.Confirmed,
		&r.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}

	r.Company = empresa.String
	r.Role = cargo.String
	r.Phone = numero.String
	r.Expectations = expectativas.String
	r.QRCode = qr.String
	if qrGeneradoAt.Valid {
		r.QRGeneratedAt = qrGeneradoAt.Time
	}

	if len(eventos) > 0 {
		if err := json.Unmarshal(eventos, &r.SelectedEvents); err != nil {
			return nil, fmt.Errorf("eventos_seleccionados corrupto en registro %d: %w", r.ID, err)
		}
	}
	return &r, nil
}
