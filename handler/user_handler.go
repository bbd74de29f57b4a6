package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SignUp godoc
// @Summary      Register a new user
// @Description  Creates a new account with a bcrypt-hashed password.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.SignUpRequest true "New user data"
// @Success      201  {object}  map[string]string
// @Failure      400  {string}  string "Malformed request payload"
// @Failure      409  {object}  common.AppError "User id already taken"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /auth/signup [post]
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignUpRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.userService.Register(req); err != nil {
		if err == service.ErrUserAlreadyExists {
			return common.NewAppError(http.StatusConflict, err.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "signup successful"})
	return nil
}
