package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deliciasmz/storage"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnconfigured = storage.ErrUnconfigured
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("already exists")
	ErrInvalidID    = errors.New("invalid record id")
)

// Server error codes that mean "the data is not there to talk to" rather
// than "the request was wrong".
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeNamespaceNotFound    = 26
)

var unavailableMessages = []string{
	"server selection error",
	"connection refused",
	"no reachable servers",
	"no such host",
	"connection reset",
	"i/o timeout",
}

// isUnavailable reports whether err means the backend cannot be reached or
// is missing its collections.
func isUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, storage.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) &&
		(se.HasErrorCode(codeNamespaceNotFound) || se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range unavailableMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// classify tags err with storage.ErrUnavailable or ErrDuplicate when it
// matches; other errors pass through unchanged.
func classify(err error) error {
	if err == nil || errors.Is(err, storage.ErrUnavailable) {
		return err
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
