// Package controllers holds the HTTP handlers. Each controller binds and
// validates the request, calls its repository, maps repository errors onto
// the HTTP taxonomy and shapes the JSON reply.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// urlID reads a numeric path parameter. Returns (0, false) and writes a 404
// when the value is not a positive integer.
func urlID(w http.ResponseWriter, r *http.Request, name, notFoundMsg string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.NotFound(w, notFoundMsg)
		return 0, false
	}
	return uint(id), true
}

// fail maps a repository error to the HTTP error taxonomy. notFoundMsg and
// conflictMsg name the entity; anything unmapped is logged and becomes a
// generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case errors.Is(err, repositories.ErrConflict):
		response.Error(w, http.StatusConflict, conflictMsg)
	case errors.Is(err, repositories.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, repositories.ErrEmptyCart):
		response.Error(w, http.StatusBadRequest, "Cart is empty")
	default:
		logger.WithCtx(r.Context()).Error("storage failure",
			"method", r.Method, "path", r.URL.Path, "error", err)
		response.Internal(w)
	}
}
