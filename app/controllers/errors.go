package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *ctx.Context, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		dupName    *services.DuplicateNameError
		slug       *services.SlugConflictError
		cycle      *services.CycleError
	)

	switch {
	case errors.As(err, &validation):
		c.ValidationError(map[string]string{validation.Field: validation.Reason})
	case errors.As(err, &notFound):
		c.NotFound(notFound.Error())
	case errors.As(err, &dupName), errors.As(err, &slug), errors.As(err, &cycle):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotVendor):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials")
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method, "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
