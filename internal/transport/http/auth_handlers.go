package http

import (
	"net/http"

	"github.com/cwrk-planet/creator-hub/internal/service"
	httpmw "github.com/cwrk-planet/creator-hub/internal/transport/http/middleware"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
)

// POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		writeError(w, r, "handler.Register.decode", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, "handler.Register.validate", err)
		return
	}

	res, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Role:            req.Role,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Location:        req.Location,
	})
	if err != nil {
		writeError(w, r, "handler.Register", err)
		return
	}

	httputil.JSON(w, http.StatusCreated, TokenResponse{
		Message: "user created successfully",
		Token:   res.Token,
	})
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		writeError(w, r, "handler.Login.decode", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, "handler.Login.validate", err)
		return
	}

	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, "handler.Login", err)
		return
	}

	httputil.JSON(w, http.StatusOK, TokenResponse{Token: res.Token})
}

// POST /auth/google
func (h *Handler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req GoogleSignInRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		writeError(w, r, "handler.GoogleSignIn.decode", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		writeError(w, r, "handler.GoogleSignIn.validate", err)
		return
	}

	res, created, err := h.authSvc.GoogleSignIn(r.Context(), service.GoogleSignInInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		writeError(w, r, "handler.GoogleSignIn", err)
		return
	}

	if created {
		httputil.JSON(w, http.StatusCreated, TokenResponse{Message: "user created successfully", Token: res.Token})
		return
	}
	httputil.JSON(w, http.StatusOK, TokenResponse{Message: "login successful", Token: res.Token})
}

// GET /me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := httpmw.IdentityFromCtx(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	res, err := h.authSvc.Me(r.Context(), id)
	if err != nil {
		writeError(w, r, "handler.Me", err)
		return
	}

	httputil.JSON(w, http.StatusOK, toMeResponse(res))
}
