package router

import (
	"go-auth-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, authHandler *handler.AuthHandler, profileHandler *handler.ProfileHandler, authMW func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Signup, login and reissue stay outside the gate. Reissue is by
	// definition called once the access token has expired; the refresh
	// cookie alone authenticates it.
	mux.Handle("POST /auth/signup", handler.ErrorHandlingMiddleware(userHandler.SignUp))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/reissue", handler.ErrorHandlingMiddleware(authHandler.Reissue))

	// Everything below requires a valid access token.
	mux.Handle("POST /auth/logout", authMW(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	mux.Handle("GET /api/users/me", authMW(handler.ErrorHandlingMiddleware(profileHandler.GetProfile)))
	mux.Handle("PUT /api/users/me", authMW(handler.ErrorHandlingMiddleware(profileHandler.UpdateProfile)))

	return mux
}
