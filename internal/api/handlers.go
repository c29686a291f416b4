package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dlr1251/chimeneasluque/internal/chat"
	"github.com/dlr1251/chimeneasluque/internal/database"
	"github.com/dlr1251/chimeneasluque/internal/export"
	"github.com/dlr1251/chimeneasluque/internal/gallery"
	"github.com/dlr1251/chimeneasluque/internal/service"
)

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodPost:
		s.createReservation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listReservations(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))

	reservations, err := s.reservations.ListReservations(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.reservations.CreateReservation(r.Context(), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Reserva creada exitosamente",
		"reservation": created,
	})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	slots, err := s.reservations.GetAvailableSlots(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reservations, err := s.reservations.ListReservations(r.Context(), "")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	f, err := export.BuildWorkbook(reservations)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build export workbook")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.ExportDownloadsAs))
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream export workbook")
	}
}

type chatRequest struct {
	Message string         `json:"message"`
	History []chat.Message `json:"history"`
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.allowChat(r) {
		writeError(w, http.StatusTooManyRequests, "too many messages, please wait a moment")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reply, err := s.chatSvc.Respond(r.Context(), strings.TrimSpace(req.Message), req.History)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		s.logger.Error().Err(err).Msg("chat service error")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// allowChat checks the per-client message budget. Limiter failures let the
// request through so a Redis outage never silences the chat widget.
func (s *HTTPServer) allowChat(r *http.Request) bool {
	if s.limiter == nil || s.cfg.ChatRateLimit <= 0 {
		return true
	}

	allowed, err := s.limiter.CheckRateLimit(r.Context(), clientIP(r), s.cfg.ChatRateLimit, s.cfg.ChatRateWindow)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		return true
	}
	return allowed
}

func (s *HTTPServer) handleImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	images, err := s.gallery.ListImages(category)
	if err != nil {
		if errors.Is(err, gallery.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		s.logger.Error().Err(err).Str("category", category).Msg("gallery error")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

// writeServiceError maps booking service failures onto HTTP statuses.
// Validation problems name the offending field; everything else stays
// generic so internals never leak to the storefront.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	if verr, ok := service.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"field": verr.Field,
		})
		return
	}
	if errors.Is(err, database.ErrSlotTaken) {
		writeError(w, http.StatusConflict, "este horario ya está reservado")
		return
	}

	s.logger.Error().Err(err).Msg("reservation service error")
	writeError(w, http.StatusInternalServerError, "internal server error")
}
