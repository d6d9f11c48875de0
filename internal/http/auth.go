package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/auth"
	"clubpulse/server/internal/crypto"
	"clubpulse/server/internal/member"
	"clubpulse/server/internal/model"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         memberSummary `json:"user"`
}

type memberSummary struct {
	UID             string  `json:"uid"`
	Name            string  `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	ClassName       *string `json:"className,omitempty"`
	RollNo          *string `json:"rollNo,omitempty"`
	Year            *string `json:"year,omitempty"`
	TeamName        *string `json:"teamName"`
	Position        *string `json:"position"`
	Role            string  `json:"role"`
	UniqueID        string  `json:"uniqueId"`
	Access          string  `json:"access"`
	ClaimsUpdatedAt *int64  `json:"claimsUpdatedAt,omitempty"`
	JoinDate        int64   `json:"joinDate"`
}

func mapMemberSummary(m model.Member) memberSummary {
	summary := memberSummary{
		UID:       m.UID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		ClassName: m.ClassName,
		RollNo:    m.RollNo,
		Year:      m.Year,
		TeamName:  m.TeamName,
		Position:  m.Position,
		Role:      m.Role,
		UniqueID:  m.UniqueID,
		Access:    member.AccessLabel(derefString(m.TeamName), derefString(m.Position)),
		JoinDate:  m.JoinDate.UnixMilli(),
	}
	if m.ClaimsUpdatedAt != nil {
		millis := m.ClaimsUpdatedAt.UnixMilli()
		summary.ClaimsUpdatedAt = &millis
	}
	return summary
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// canonicalLoginEmail turns a bare member id into its login alias. Full
// addresses pass through lowercased.
func (s *Server) canonicalLoginEmail(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || strings.Contains(identifier, "@") {
		return identifier
	}
	return identifier + "@" + s.cfg.LoginEmailDomain
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	loginEmail := s.canonicalLoginEmail(req.Identifier)
	if loginEmail == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	m, err := s.store.GetMemberByLoginEmail(r.Context(), loginEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if err := crypto.CheckPassword(m.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapMemberSummary(m),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "missing_refresh_token")
		return
	}

	tokenHash := crypto.HashToken(req.RefreshToken)
	session, err := s.store.GetRefreshSession(r.Context(), tokenHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid_refresh_token")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if session.RevokedAt != nil || session.ExpiresAt.Before(time.Now().UTC()) {
		writeError(w, http.StatusUnauthorized, "refresh_token_expired")
		return
	}

	// Claims are re-read from the row here, so a role change becomes
	// visible on the next refresh.
	m, err := s.store.GetMember(r.Context(), session.UID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "user_not_found")
		return
	}

	if err := s.store.RevokeRefreshSession(r.Context(), session.ID, time.Now().UTC()); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapMemberSummary(m),
	})
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// handleResetPassword acknowledges every request identically so the endpoint
// cannot be used to probe which addresses have accounts. Actual delivery of
// reset instructions is an operator concern outside this service.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	loginEmail := s.canonicalLoginEmail(req.Email)
	if loginEmail == "" {
		writeError(w, http.StatusBadRequest, "missing_email")
		return
	}

	if _, err := s.store.GetMemberByLoginEmail(r.Context(), loginEmail); err == nil {
		log.Printf("password reset requested for %s", loginEmail)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) issueTokens(ctx context.Context, m model.Member) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		UID:      m.UID,
		Role:     m.Role,
		UniqueID: m.UniqueID,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := crypto.NewRefreshToken()
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	session := model.RefreshSession{
		ID:        uuid.NewString(),
		UID:       m.UID,
		TokenHash: crypto.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.store.CreateRefreshSession(ctx, session); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
