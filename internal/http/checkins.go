package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/auth"
	"clubpulse/server/internal/checkin"
	"clubpulse/server/internal/member"
	"clubpulse/server/internal/model"
	"clubpulse/server/internal/repository"
)

type checkinRequest struct {
	Code     string           `json:"code"`
	Attendee *attendeeDetails `json:"attendee"`
}

type attendeeDetails struct {
	Name      string `json:"name"`
	ClassName string `json:"class"`
	Year      string `json:"year"`
	RollNo    string `json:"rollNo"`
	Email     string `json:"email"`
}

// handleCheckin accepts a scanned QR payload. Guest codes are open; team
// codes need an authenticated member bearer, resolved inside the handler
// because the route itself is public.
func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	code, err := checkin.ParseCode(req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_code")
		return
	}
	if err := code.ValidateAt(checkin.EpochMinute(time.Now())); err != nil {
		writeError(w, http.StatusBadRequest, "expired_code")
		return
	}

	if _, err := s.store.GetEvent(r.Context(), code.EventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	switch code.Kind {
	case checkin.KindTeam:
		s.handleTeamCheckin(w, r, code)
	case checkin.KindGuest:
		s.handleGuestCheckin(w, r, code, req.Attendee)
	}
}

func (s *Server) handleTeamCheckin(w http.ResponseWriter, r *http.Request, code checkin.Code) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}
	if claims.Role == member.RoleGuest {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	// Snapshot profile fields from the current row, not the token.
	m, err := s.store.GetMember(r.Context(), claims.UID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	uniqueID := m.UniqueID
	if uniqueID == "" {
		uniqueID = claims.UniqueID
	}
	// Rows without a card id (seeded admins) have no check-in identity;
	// the (event_id, unique_id) constraint would conflate them all.
	if uniqueID == "" {
		writeError(w, http.StatusBadRequest, "missing_unique_id")
		return
	}

	exists, err := s.store.HasTeamAttendance(r.Context(), code.EventID, uniqueID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "duplicate_checkin")
		return
	}

	now := time.Now()
	record := model.TeamAttendance{
		ID:        uuid.NewString(),
		EventID:   code.EventID,
		UniqueID:  uniqueID,
		Name:      m.Name,
		ClassName: derefString(m.ClassName),
		RollNo:    derefString(m.RollNo),
		TeamName:  derefString(m.TeamName),
		EntryDate: now.Format("2006-01-02"),
		EntryTime: now.Format("15:04:05"),
		CreatedAt: now.UTC(),
	}
	if err := s.store.CreateTeamAttendance(r.Context(), record); err != nil {
		// Concurrent scans race past the existence check; the unique
		// index settles it.
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "duplicate_checkin")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if record.TeamName != "" {
		s.notifier.RosterChanged(r.Context(), record.TeamName)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": record.ID})
}

func (s *Server) handleGuestCheckin(w http.ResponseWriter, r *http.Request, code checkin.Code, attendee *attendeeDetails) {
	if attendee == nil {
		writeError(w, http.StatusBadRequest, "attendee_required")
		return
	}
	name := strings.TrimSpace(attendee.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	now := time.Now()
	record := model.GuestAttendance{
		ID:        uuid.NewString(),
		EventID:   code.EventID,
		Name:      name,
		ClassName: strings.TrimSpace(attendee.ClassName),
		Year:      strings.TrimSpace(attendee.Year),
		RollNo:    strings.TrimSpace(attendee.RollNo),
		Email:     strings.TrimSpace(attendee.Email),
		EntryDate: now.Format("2006-01-02"),
		EntryTime: now.Format("15:04:05"),
		CreatedAt: now.UTC(),
	}
	if err := s.store.CreateGuestAttendance(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": record.ID})
}
