package user_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"skybook/internal/auth"
	"skybook/internal/logger"
	"skybook/internal/models"
	"skybook/internal/users"
	"skybook/internal/utils"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Service  *users.Service
	Validate *validator.Validate
	Logger   *logger.Logger
}

func NewHandler(service *users.Service, log *logger.Logger) *Handler {
	return &Handler{
		Service:  service,
		Validate: validator.New(),
		Logger:   log,
	}
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	user, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SignUp: %s: %v", req.Email, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Account created successfully", user))
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	session, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		h.Logger.LogSecurity("SIGNIN_FAILED", fmt.Sprintf("%s: %v", req.Email, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Signed in successfully", session))
}

// Profile handles GET /auth/profile for the authenticated caller.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.RequestIdentity(r.Context())

	user, err := h.Service.GetProfile(r.Context(), identity.ID)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Profile: user %s: %v", identity.ID, err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Profile retrieved successfully", user))
}
