package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type ProfileHandler struct {
	userService *service.UserService
}

func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// GetProfile godoc
// @Summary      Get the current user's profile
// @Description  Returns the profile fields of the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account no longer exists"
// @Router       /api/users/me [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not load profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
	return nil
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Description  Overwrites the mutable profile fields of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile body model.UpdateProfileRequest true "New profile fields"
// @Success      200  {object}  map[string]string
// @Failure      400  {string}  string "Malformed request payload"
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      404  {object}  common.AppError "Account no longer exists"
// @Router       /api/users/me [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateProfileRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.userService.UpdateProfile(r.Context(), userID, req); err != nil {
		if err == service.ErrUserNotFound {
			return common.NewAppError(http.StatusNotFound, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "profile updated"})
	return nil
}
