package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clubpulse/server/internal/crypto"
	"clubpulse/server/internal/member"
	"clubpulse/server/internal/model"
	"clubpulse/server/internal/repository"
)

type registerMemberRequest struct {
	Name      string  `json:"name"`
	ClassName *string `json:"className"`
	RollNo    *string `json:"rollNo"`
	TeamName  *string `json:"teamName"`
	Position  *string `json:"position"`
	Role      string  `json:"role"`
	UniqueID  string  `json:"uniqueId"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	Year      *string `json:"year"`
	Phone     *string `json:"phone"`
}

func (s *Server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "weak_password")
		return
	}

	uniqueID := strings.TrimSpace(req.UniqueID)
	if uniqueID == "" {
		uniqueID = member.GenerateID()
	}

	// Members without a real address sign in through the id alias.
	loginEmail := ""
	if req.Email != nil {
		loginEmail = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if loginEmail == "" {
		loginEmail = strings.ToLower(uniqueID) + "@" + s.cfg.LoginEmailDomain
	}

	teamName := derefString(req.TeamName)
	position := derefString(req.Position)
	role := member.DeriveRole(teamName, position, req.Role, "")

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	now := time.Now().UTC()
	m := model.Member{
		UID:          uuid.NewString(),
		Name:         req.Name,
		LoginEmail:   loginEmail,
		Email:        req.Email,
		Phone:        req.Phone,
		ClassName:    req.ClassName,
		RollNo:       req.RollNo,
		Year:         req.Year,
		TeamName:     req.TeamName,
		Position:     req.Position,
		Role:         role,
		UniqueID:     uniqueID,
		PasswordHash: passwordHash,
		JoinDate:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == member.RoleAdmin {
		m.ClaimsUpdatedAt = &now
	}

	if err := s.store.CreateMember(r.Context(), m); err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "duplicate_identifier")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if teamName != "" {
		if err := s.adoptTeam(r.Context(), teamName); err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"uid":      m.UID,
		"uniqueId": uniqueID,
		"password": req.Password,
		"message":  "Member registered successfully",
	})
}

type updateMemberRequest struct {
	UID         *string `json:"uid"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	TeamName    *string `json:"teamName"`
	UniqueID    *string `json:"uniqueId"`
	NewPassword *string `json:"newPassword"`
	Position    *string `json:"position"`
	Name        *string `json:"name"`
	ClassName   *string `json:"className"`
	RollNo      *string `json:"rollNo"`
	Year        *string `json:"year"`
	Phone       *string `json:"phone"`
}

func (s *Server) handlePatchMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	uid := derefString(req.UID)
	if uid == "" && req.Email != nil {
		m, err := s.store.GetMemberByLoginEmail(r.Context(), s.canonicalLoginEmail(*req.Email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "user_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		uid = m.UID
	}
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid_or_email_required")
		return
	}

	s.applyMemberUpdate(w, r, uid, req)
}

func (s *Server) handlePutMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	s.applyMemberUpdate(w, r, chi.URLParam(r, "uid"), req)
}

// applyMemberUpdate is the shared body of PATCH and PUT: recompute role from
// the incoming team/position, persist profile changes, rotate the password if
// requested, and reconcile rosters when the member changed teams.
func (s *Server) applyMemberUpdate(w http.ResponseWriter, r *http.Request, uid string, req updateMemberRequest) {
	// Reject a bad password before anything is written, so a failed
	// request leaves the row and the rosters untouched.
	if req.NewPassword != nil && len(*req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "weak_password")
		return
	}

	current, err := s.store.GetMember(r.Context(), uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	teamEval := derefString(current.TeamName)
	if req.TeamName != nil {
		teamEval = *req.TeamName
	}
	positionEval := derefString(current.Position)
	if req.Position != nil {
		positionEval = *req.Position
	}
	role := member.DeriveRole(teamEval, positionEval, derefString(req.Role), current.Role)

	update := repository.MemberUpdate{
		Name:      req.Name,
		Phone:     req.Phone,
		ClassName: req.ClassName,
		RollNo:    req.RollNo,
		Year:      req.Year,
		TeamName:  req.TeamName,
		Position:  req.Position,
		Role:      &role,
		UniqueID:  req.UniqueID,
	}
	if err := s.store.UpdateMember(r.Context(), uid, update); err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "duplicate_identifier")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	// Sessions issued before this carry stale role/team claims.
	_ = s.store.TouchClaims(r.Context(), uid, time.Now().UTC())

	if req.NewPassword != nil {
		hash, err := crypto.HashPassword(*req.NewPassword)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if err := s.store.UpdateMemberPassword(r.Context(), uid, hash); err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
	}

	if req.TeamName != nil {
		oldTeam := derefString(current.TeamName)
		if oldTeam != "" && oldTeam != *req.TeamName {
			if err := s.syncAndNotify(r.Context(), oldTeam); err != nil {
				writeError(w, http.StatusInternalServerError, "server_error")
				return
			}
		}
		if *req.TeamName != "" {
			if err := s.adoptTeam(r.Context(), *req.TeamName); err != nil {
				writeError(w, http.StatusInternalServerError, "server_error")
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "uid": uid})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	summaries := make([]memberSummary, 0, len(members))
	for _, m := range members {
		summaries = append(summaries, mapMemberSummary(m))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": summaries})
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMember(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, mapMemberSummary(m))
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	current, err := s.store.GetMember(r.Context(), uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	if err := s.store.DeleteMember(r.Context(), uid); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = s.store.RevokeRefreshSessionsByUID(r.Context(), uid, time.Now().UTC())

	// Attendance history stays; only roster entries are scrubbed.
	if err := s.syncer.RemoveEverywhere(r.Context(), uid); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if current.TeamName != nil && *current.TeamName != "" {
		s.notifier.RosterChanged(r.Context(), *current.TeamName)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

type seedAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// handleSeedAdmin bootstraps the first admin account. It is public on
// purpose and self-disables once any admin exists.
func (s *Server) handleSeedAdmin(w http.ResponseWriter, r *http.Request) {
	var req seedAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "weak_password")
		return
	}

	hasAdmin, err := s.store.HasAdmin(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if hasAdmin {
		writeError(w, http.StatusConflict, "admin_exists")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	now := time.Now().UTC()
	m := model.Member{
		UID:             uuid.NewString(),
		Name:            name,
		LoginEmail:      req.Email,
		Email:           &req.Email,
		Role:            member.RoleAdmin,
		PasswordHash:    passwordHash,
		ClaimsUpdatedAt: &now,
		JoinDate:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateMember(r.Context(), m); err != nil {
		if repository.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, "duplicate_identifier")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "uid": m.UID})
}
