package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
	"time"
)

const refreshTokenCookieName = "refreshToken"

// AuthHandler owns the transport side of the session lifecycle: the login
// body, the refresh-token cookie, and the reissue-from-cookie exchange.
type AuthHandler struct {
	authService *service.AuthService
	refreshTTL  time.Duration
}

func NewAuthHandler(authService *service.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, refreshTTL: refreshTTL}
}

// refreshCookie builds the refresh-token carrier. The token is delivered
// only in this cookie, HTTP-only so script can never read it, and
// SameSite=Strict against CSRF.
func (h *AuthHandler) refreshCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     refreshTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// Login godoc
// @Summary      Log a user in
// @Description  Verifies credentials, returns the access token in the body and sets the refresh token as an HTTP-only cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "User credentials"
// @Success      200  {object}  model.LoginResponse
// @Failure      400  {string}  string "Malformed request payload"
// @Failure      401  {object}  common.AppError "Id or password incorrect"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	result, err := h.authService.Login(req.UserID, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return common.NewAppError(http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	http.SetCookie(w, h.refreshCookie(result.RefreshToken, int(h.refreshTTL.Seconds())))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.LoginResponse{
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
	})
	return nil
}

// Logout godoc
// @Summary      Log the current user out
// @Description  Clears the stored refresh token and expires the refresh cookie. The target account is the authenticated one, never a client-supplied id.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.authService.Logout(userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	// Max-Age 0 forces the client to drop the cookie.
	http.SetCookie(w, h.refreshCookie("", -1))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "logout successful"})
	return nil
}

// Reissue godoc
// @Summary      Reissue an access token
// @Description  Exchanges the refresh-token cookie for a fresh access token. No new refresh token is issued.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.ReissueResponse
// @Failure      401  {object}  common.AppError "Missing or invalid refresh token"
// @Router       /auth/reissue [post]
func (h *AuthHandler) Reissue(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(refreshTokenCookieName)
	if err != nil {
		return common.NewAppError(http.StatusUnauthorized, service.ErrInvalidRefreshToken.Error(), err)
	}

	accessToken, err := h.authService.ReissueAccessToken(cookie.Value)
	if err != nil {
		if err == service.ErrInvalidRefreshToken {
			return common.NewAppError(http.StatusUnauthorized, service.ErrInvalidRefreshToken.Error(), err)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not reissue access token", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.ReissueResponse{AccessToken: accessToken})
	return nil
}
