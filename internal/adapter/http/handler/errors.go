package handler

import (
	"fmt"
	"net/http"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serviceErrorResponse writes err with the status GetCode picks for it.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)
	if code == http.StatusUnauthorized {
		unauthorizedResponse(w, publicMessage(err, code))
		return
	}
	errorResponse(w, code, publicMessage(err, code))
}

// failedValidationResponse returns 422 with a field -> message map.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func unauthorizedResponse(w http.ResponseWriter, message any) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	errorResponse(w, http.StatusUnauthorized, message)
}

func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, "internal server error")
}

var errWSAuthFrame = fmt.Errorf("%w: first frame must be {\"type\":\"auth\",\"token\":...}", types.ErrUnauthenticated)
