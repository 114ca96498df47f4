package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kossodo/expokossodo-leads/internal/badge"
	"github.com/kossodo/expokossodo-leads/internal/entity"
)

type RegistrantFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.Registrant, error)
}

type RegistrantHandler struct {
	Repo RegistrantFinder
}

func NewRegistrantHandler(repo RegistrantFinder) *RegistrantHandler {
	return &RegistrantHandler{Repo: repo}
}

// HandleGet devuelve el registro consolidado de un correo.
func (h *RegistrantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	correo := chi.URLParam(r, "correo")

	reg, err := h.Repo.FindByEmail(r.Context(), correo)
	if err != nil {
		log.Printf("❌ Error buscando registro de %s: %v", correo, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if reg == nil {
		http.Error(w, "Registro no encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reg)
}

// HandleQR renderiza el QR de la credencial como PNG.
func (h *RegistrantHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	correo := chi.URLParam(r, "correo")

	reg, err := h.Repo.FindByEmail(r.Context(), correo)
	if err != nil {
		log.Printf("❌ Error buscando registro de %s: %v", correo, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if reg == nil || reg.QRCode == "" {
		http.Error(w, "Registro no encontrado", http.StatusNotFound)
		return
	}

	png, err := badge.RenderPNG(reg.QRCode)
	if err != nil {
		log.Printf("❌ Error renderizando QR de %s: %v", correo, err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
