package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/event"
	"clubpulse/server/internal/model"
	"clubpulse/server/internal/repository"
)

type eventSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Time        string `json:"time,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// mapEventSummary always recomputes status; the stored column is only a
// cache kept warm by the background job.
func mapEventSummary(ev model.Event, now time.Time) eventSummary {
	return eventSummary{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Date:        ev.Date,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
		Time:        ev.Time,
		Venue:       ev.Venue,
		Status:      string(event.StatusOf(ev, now)),
		CreatedAt:   ev.CreatedAt.UnixMilli(),
		UpdatedAt:   ev.UpdatedAt.UnixMilli(),
	}
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Date = strings.TrimSpace(req.Date)
	if req.Title == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "title_and_date_required")
		return
	}

	now := time.Now()
	ev := model.Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Time:        req.Time,
		Venue:       req.Venue,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	ev.Status = string(event.StatusOf(ev, now))

	if err := s.store.CreateEvent(r.Context(), ev); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapEventSummary(ev, now))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	now := time.Now()
	summaries := make([]eventSummary, 0, len(events))
	for _, ev := range events {
		summaries = append(summaries, mapEventSummary(ev, now))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": summaries})
}

// handlePastEvents lists events whose start has elapsed. Events with an
// unparseable date are skipped rather than guessed at.
func (s *Server) handlePastEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	now := time.Now()
	summaries := make([]eventSummary, 0)
	for _, ev := range events {
		startTime := ev.StartTime
		if startTime == "" {
			startTime = ev.Time
		}
		start, _, ok := event.Window(ev.Date, startTime, ev.EndTime)
		if !ok || !start.Before(now) {
			continue
		}
		summaries = append(summaries, mapEventSummary(ev, now))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": summaries})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapEventSummary(ev, time.Now()))
}

type updateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Venue       *string `json:"venue"`
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id := chi.URLParam(r, "id")

	update := repository.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
	}
	if err := s.store.UpdateEvent(r.Context(), id, update); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	ev, err := s.store.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	now := time.Now()
	status := string(event.StatusOf(ev, now))
	if status != ev.Status {
		_ = s.store.UpdateEventStatus(r.Context(), id, status)
		ev.Status = status
	}

	writeJSON(w, http.StatusOK, mapEventSummary(ev, now))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

type teamAttendanceSummary struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	UniqueID  string `json:"uniqueId"`
	Name      string `json:"name"`
	ClassName string `json:"class"`
	RollNo    string `json:"rollNo"`
	TeamName  string `json:"teamName"`
	EntryDate string `json:"entryDate"`
	EntryTime string `json:"entryTime"`
}

type guestAttendanceSummary struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	Name      string `json:"name"`
	ClassName string `json:"class"`
	Year      string `json:"year"`
	RollNo    string `json:"rollNo"`
	Email     string `json:"email"`
	EntryDate string `json:"entryDate"`
	EntryTime string `json:"entryTime"`
}

func (s *Server) handleEventAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetEvent(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "event_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	team, err := s.store.ListTeamAttendance(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	guests, err := s.store.ListGuestAttendance(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	teamOut := make([]teamAttendanceSummary, 0, len(team))
	for _, a := range team {
		teamOut = append(teamOut, teamAttendanceSummary{
			ID:        a.ID,
			EventID:   a.EventID,
			UniqueID:  a.UniqueID,
			Name:      a.Name,
			ClassName: a.ClassName,
			RollNo:    a.RollNo,
			TeamName:  a.TeamName,
			EntryDate: a.EntryDate,
			EntryTime: a.EntryTime,
		})
	}
	guestOut := make([]guestAttendanceSummary, 0, len(guests))
	for _, a := range guests {
		guestOut = append(guestOut, guestAttendanceSummary{
			ID:        a.ID,
			EventID:   a.EventID,
			Name:      a.Name,
			ClassName: a.ClassName,
			Year:      a.Year,
			RollNo:    a.RollNo,
			Email:     a.Email,
			EntryDate: a.EntryDate,
			EntryTime: a.EntryTime,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"team": teamOut, "guests": guestOut})
}
