package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const userIDContextKey = contextKey("userID")

func (app *Application) contextSetUserId(r *http.Request, userId int) *http.Request {
	ctx := context.WithValue(r.Context(), userIDContextKey, userId)
	return r.WithContext(ctx)
}

func (app *Application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(userIDContextKey).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	return app.logger.With("request_id", middleware.GetReqID(r.Context()))
}
