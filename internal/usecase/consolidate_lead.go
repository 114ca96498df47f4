package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kossodo/expokossodo-leads/internal/badge"
	"github.com/kossodo/expokossodo-leads/internal/entity"
	"github.com/kossodo/expokossodo-leads/internal/matcher"
)

// ConsolidateLeadUseCase fusiona un lead en expokossodo_registros dentro de
// una sola transacción. Ejecutarlo dos veces con el mismo lead deja el
// estado idéntico a ejecutarlo una vez.
type ConsolidateLeadUseCase struct {
	Store ConsolidationStore
	Mail  MailSender // puede ser nil

	// Now se inyecta para fijar el timestamp del QR en tests.
	Now func() time.Time

	// Correos de confirmación en vuelo.
	mails sync.WaitGroup
}

func NewConsolidateLeadUseCase(store ConsolidationStore, mail MailSender) *ConsolidateLeadUseCase {
	return &ConsolidateLeadUseCase{
		Store: store,
		Mail:  mail,
		Now:   time.Now,
	}
}

func (uc *ConsolidateLeadUseCase) Execute(ctx context.Context, lead *entity.Lead) error {
	if lead.Email == "" {
		return &DomainError{
			Code:    "LEAD_SIN_CORREO",
			Message: fmt.Sprintf("lead %d no tiene correo, no se puede consolidar", lead.ID),
		}
	}

	// Se captura acá para mandar el correo recién después del commit.
	var created *entity.Registrant

	err := uc.Store.WithinTx(ctx, func(tx ConsolidationTx) error {
		// 1. Todos los eventos, sin cache: la tabla es chica y así el
		// matching siempre ve ediciones recientes del programa.
		events, err := tx.FindAllEvents(ctx)
		if err != nil {
			return &TechnicalError{
				Code:    "DB_EVENTOS",
				Message: fmt.Sprintf("error cargando eventos: %v", err),
			}
		}

		// 2. Matching por anuncio/día/sala.
		res := matcher.FindEvent(lead.AdName, lead.AdsetName, lead.Sala, events)
		switch res.Status {
		case matcher.Unmapped:
			return &DomainError{
				Code:    "ETIQUETAS_SIN_MAPEO",
				Message: fmt.Sprintf("no se pudo mapear día o sala para: %q / %q", lead.AdsetName, lead.Sala),
			}
		case matcher.NotFound:
			return &DomainError{
				Code:    "EVENTO_NO_ENCONTRADO",
				Message: fmt.Sprintf("no se encontró evento para: %q", lead.AdName),
			}
		}

		// 3. Buscar registro existente por correo (match exacto).
		reg, err := tx.FindRegistrantByEmail(ctx, lead.Email)
		if err != nil {
			return &TechnicalError{
				Code:    "DB_REGISTROS",
				Message: fmt.Sprintf("error buscando registro de %s: %v", lead.Email, err),
			}
		}

		if reg != nil {
			// 4a. Registro existente: agregar el evento solo si falta.
			if reg.HasEvent(res.EventID) {
				log.Printf("[INFO] El evento %d ya está en el registro %d", res.EventID, reg.ID)
			} else {
				updated := append(append([]int64{}, reg.SelectedEvents...), res.EventID)
				if err := tx.UpdateRegistrantEvents(ctx, reg.ID, updated); err != nil {
					return &TechnicalError{
						Code:    "DB_REGISTROS",
						Message: fmt.Sprintf("error actualizando eventos del registro %d: %v", reg.ID, err),
					}
				}
				log.Printf("[UPDATE] Agregado evento %d al registro existente %d", res.EventID, reg.ID)
			}
		} else {
			// 4b. Registro nuevo con su QR.
			now := uc.Now()
			nuevo := &entity.Registrant{
				Name:           lead.FullName,
				Email:          lead.Email,
				Company:        lead.Empresa,
				Role:           lead.Cargo,
				Phone:          lead.Phone,
				SelectedEvents: []int64{res.EventID},
				QRCode:         badge.GenerateText(lead.FullName, lead.Phone, lead.Cargo, lead.Empresa, now),
				QRGeneratedAt:  now,
				RegisteredAt:   now,
			}
			if err := tx.CreateRegistrant(ctx, nuevo); err != nil {
				return &TechnicalError{
					Code:    "DB_REGISTROS",
					Message: fmt.Sprintf("error creando registro para %s: %v", lead.Email, err),
				}
			}
			created = nuevo
			log.Printf("[INSERT] Nuevo registro %d para %s (evento %d, método %s)",
				nuevo.ID, lead.Email, res.EventID, res.Method)
		}

		// 5. Marcar el lead en la misma transacción: si esto falla, el
		// registro tampoco queda.
		if err := tx.MarkLeadSent(ctx, lead.ID); err != nil {
			return &TechnicalError{
				Code:    "DB_LEADS",
				Message: fmt.Sprintf("error marcando lead %d como enviado: %v", lead.ID, err),
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// El commit ya pasó: se refleja en la entidad para que el caller vea
	// el estado final sin releer la base.
	lead.Procesado = true
	lead.Enviado = true

	if created != nil && uc.Mail != nil {
		// El correo va fuera de la transacción: su falla no deshace nada.
		uc.mails.Add(1)
		go func(r entity.Registrant) {
			defer uc.mails.Done()
			uc.sendConfirmation(r)
		}(*created)
	}

	return nil
}

// Wait bloquea hasta que terminen los correos de confirmación en vuelo.
// Los procesos batch lo llaman antes de salir; sin esto los envíos del
// lote se perderían al terminar el proceso.
func (uc *ConsolidateLeadUseCase) Wait() {
	uc.mails.Wait()
}

func (uc *ConsolidateLeadUseCase) sendConfirmation(r entity.Registrant) {
	png, err := badge.RenderPNG(r.QRCode)
	if err != nil {
		log.Printf("⚠️ No se pudo renderizar QR para %s: %v", r.Email, err)
		return
	}
	if err := uc.Mail.SendConfirmation(r.Email, r.Name, png); err != nil {
		log.Printf("⚠️ Error enviando confirmación a %s: %v", r.Email, err)
		return
	}
	log.Printf("📧 Confirmación enviada a %s", r.Email)
}
