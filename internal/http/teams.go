package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/model"
	"clubpulse/server/internal/repository"
)

// adoptTeam makes sure the named team exists, then reconciles its roster and
// announces the change.
func (s *Server) adoptTeam(ctx context.Context, teamName string) error {
	_, err := s.store.GetTeam(ctx, teamName)
	if errors.Is(err, pgx.ErrNoRows) {
		now := time.Now().UTC()
		err = s.store.CreateTeam(ctx, model.Team{
			ID:        repository.Slugify(teamName),
			Name:      teamName,
			Members:   []string{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil && repository.IsUniqueViolation(err) {
			// Lost a create race; the team exists now.
			err = nil
		}
	}
	if err != nil {
		return err
	}
	return s.syncAndNotify(ctx, teamName)
}

func (s *Server) syncAndNotify(ctx context.Context, teamName string) error {
	if err := s.syncer.Reconcile(ctx, teamName); err != nil {
		return err
	}
	s.notifier.RosterChanged(ctx, teamName)
	return nil
}

type createTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	now := time.Now().UTC()
	team := model.Team{
		ID:          repository.Slugify(req.Name),
		Name:        req.Name,
		Description: req.Description,
		Members:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTeam(r.Context(), team); err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "duplicate_team")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": team.ID, "name": team.Name})
}

type teamSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	summaries := make([]teamSummary, 0, len(teams))
	for _, t := range teams {
		members := t.Members
		if members == nil {
			members = []string{}
		}
		summaries = append(summaries, teamSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Members:     members,
			CreatedAt:   t.CreatedAt.UnixMilli(),
			UpdatedAt:   t.UpdatedAt.UnixMilli(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": summaries})
}

type cleanTeamMembersRequest struct {
	TeamName *string `json:"teamName"`
}

// handleCleanTeamMembers drops roster entries whose member row is gone or
// incomplete. With a teamName it cleans one roster, without it all of them.
func (s *Server) handleCleanTeamMembers(w http.ResponseWriter, r *http.Request) {
	var req cleanTeamMembersRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
	}

	var removed int
	var err error
	if req.TeamName != nil && *req.TeamName != "" {
		if _, getErr := s.store.GetTeam(r.Context(), *req.TeamName); getErr != nil {
			if errors.Is(getErr, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "team_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		removed, err = s.syncer.CleanTeam(r.Context(), *req.TeamName)
		if err == nil && removed > 0 {
			s.notifier.RosterChanged(r.Context(), *req.TeamName)
		}
	} else {
		removed, err = s.syncer.CleanOrphans(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "removed": removed})
}

// handleWatchRosters streams roster change notifications as server-sent
// events until the client disconnects.
func (s *Server) handleWatchRosters(w http.ResponseWriter, r *http.Request) {
	events, cancel, ok := s.notifier.Subscribe(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "redis_not_configured")
		return
	}
	defer cancel()

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case teamName, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: roster\ndata: %s\n\n", teamName)
			flusher.Flush()
		}
	}
}
