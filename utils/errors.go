package utils

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/config"
	"gatherly/db"
)

// StoreErrorStatus maps a persistence error onto the externally visible
// taxonomy: missing record, store connectivity, or unexpected.
func StoreErrorStatus(err error) int {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound
	case errors.Is(err, db.ErrNotInitialized),
		errors.Is(err, context.DeadlineExceeded),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrMsg returns the real error text in debug mode and the fallback
// otherwise, so internals stay out of production responses.
func ErrMsg(fallback string, err error) string {
	if config.App.Debug && err != nil {
		return err.Error()
	}
	return fallback
}
