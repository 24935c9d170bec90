package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ironcraft/apperr"
	"ironcraft/config"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/middleware"
	"ironcraft/models"
)

type AuthHandler struct {
	config *config.Config
	store  docstore.Store
	dir    *directory.Service
}

func NewAuthHandler(cfg *config.Config, store docstore.Store, dir *directory.Service) *AuthHandler {
	return &AuthHandler{config: cfg, store: store, dir: dir}
}

type profileResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Privilege     models.Privilege `json:"privilege"`
	HourlyRate    float64          `json:"hourly_rate"`
	PushToken     string           `json:"push_token,omitempty"`
	ABN           string           `json:"abn,omitempty"`
	BSB           string           `json:"bsb,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
}

func profileOf(c *models.Contractor) profileResponse {
	return profileResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Privilege:     c.Privilege,
		HourlyRate:    c.HourlyRate,
		PushToken:     c.PushToken,
		ABN:           c.ABN,
		BSB:           c.BSB,
		AccountNumber: c.AccountNumber,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, apperr.Invalid("email", "required"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, apperr.Invalid("name", "required"))
		return
	}
	if len(req.Password) < 4 {
		writeError(w, apperr.Invalid("password", "too short"))
		return
	}

	if _, err := h.dir.FindContractorByEmail(r.Context(), req.Email); err == nil {
		writeError(w, apperr.Invalid("email", "already registered"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	contractor := models.Contractor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Privilege:    models.PrivilegeUser,
	}
	doc, err := h.store.Create(r.Context(), models.ContractorCollection, docstore.NewID(), contractor)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := docstore.Decode[models.Contractor](doc)
	if err != nil {
		writeError(w, err)
		return
	}

	h.issueToken(w, &created)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	contractor, err := h.dir.FindContractorByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(contractor.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	h.issueToken(w, contractor)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, contractor *models.Contractor) {
	token, err := middleware.GenerateToken(contractor, h.config.JWTExpiration)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"profile": profileOf(contractor),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	contractor := middleware.ContractorFromContext(r.Context())
	if contractor == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(contractor.PasswordHash), []byte(req.CurrentPassword)) != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "current password is incorrect"})
		return
	}
	if len(req.NewPassword) < 4 {
		writeError(w, apperr.Invalid("new_password", "too short"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.store.Update(r.Context(), models.ContractorCollection, contractor.ID,
		map[string]any{"password_hash": string(hash)}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	contractor := middleware.ContractorFromContext(r.Context())
	if contractor == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(contractor))
}

// UpdateProfile lets a contractor maintain their own display name, push
// token and invoice identity. Rates are set by an admin, not here.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	contractor := middleware.ContractorFromContext(r.Context())
	if contractor == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name          *string `json:"name"`
		PushToken     *string `json:"push_token"`
		ABN           *string `json:"abn"`
		BSB           *string `json:"bsb"`
		AccountNumber *string `json:"account_number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	patch := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			writeError(w, apperr.Invalid("name", "must not be empty"))
			return
		}
		patch["name"] = *req.Name
	}
	if req.PushToken != nil {
		patch["push_token"] = *req.PushToken
	}
	if req.ABN != nil {
		patch["abn"] = *req.ABN
	}
	if req.BSB != nil {
		patch["bsb"] = *req.BSB
	}
	if req.AccountNumber != nil {
		patch["account_number"] = *req.AccountNumber
	}
	if len(patch) == 0 {
		writeError(w, apperr.Invalid("body", "nothing to update"))
		return
	}

	doc, err := h.store.Update(r.Context(), models.ContractorCollection, contractor.ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := docstore.Decode[models.Contractor](doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileOf(&updated))
}
