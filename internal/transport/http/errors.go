package http

import (
	"errors"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toErrorPayload(err error) errorPayload {
	return errorPayload{Code: errorCode(err), Message: err.Error()}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, app.ErrOptionNotFound):
		return "option_not_found"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	case errors.Is(err, domain.ErrNoQuestions), errors.Is(err, domain.ErrEmptyCatalog), errors.Is(err, domain.ErrCatalogNotFound):
		return "no_questions"
	default:
		return "internal"
	}
}
