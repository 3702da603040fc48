package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

const maxBodyBytes = 1_048_576

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)

	return nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		// encoding/json has no typed error for unknown fields
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "application/json")
}

// GetCode maps a service error to its HTTP status.
func GetCode(err error) int {
	switch {
	case types.IsOneOf(err, types.ErrValidation):
		return http.StatusUnprocessableEntity
	// login and registration failures are plain 400s
	case types.IsOneOf(err, types.ErrInvalidCredentials, types.ErrUsernameTaken, types.ErrInvalidState):
		return http.StatusBadRequest
	case types.IsOneOf(err, types.ErrTokenExpired, types.ErrTokenMalformed, types.ErrUnauthenticated):
		return http.StatusUnauthorized
	case types.IsOneOf(err, types.ErrUserNotFound):
		return http.StatusNotFound
	case types.IsOneOf(err, types.ErrAlreadyFavorite):
		return http.StatusConflict
	case types.IsOneOf(err, types.ErrProviderExchangeFailed):
		return http.StatusBadGateway
	case types.IsOneOf(err, types.ErrProviderDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text a client may see for err.
func publicMessage(err error, code int) string {
	switch code {
	case http.StatusInternalServerError:
		return types.ErrUnexpected.Error()
	case http.StatusBadGateway:
		return types.ErrProviderExchangeFailed.Error()
	case http.StatusServiceUnavailable:
		return types.ErrProviderDisabled.Error()
	default:
		return err.Error()
	}
}
