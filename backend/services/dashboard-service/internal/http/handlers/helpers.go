package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string             `json:"code"`
	Error   string             `json:"error"`
	Details apperr.FieldErrors `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_, _ = w.Write(body)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Error: message})
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:          http.StatusBadRequest,
	apperr.KindAlreadySubscribed:   http.StatusBadRequest,
	apperr.KindConfiguration:       http.StatusServiceUnavailable,
	apperr.KindUpstreamTimeout:     http.StatusGatewayTimeout,
	apperr.KindUpstreamUnavailable: http.StatusServiceUnavailable,
	apperr.KindStorage:             http.StatusInternalServerError,
	apperr.KindNotFound:            http.StatusNotFound,
	apperr.KindUnauthorized:        http.StatusUnauthorized,
}

// writeAppError renders err with the status of its category. Errors without a category are
// reported as internal_error without leaking their text.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	status, ok := kindStatus[appErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{
		Code:    string(appErr.Kind),
		Error:   appErr.Message,
		Details: appErr.Fields,
	})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Validation("Invalid request body", apperr.FieldErrors{
			"non_field_errors": {err.Error()},
		})
	}
	return body, nil
}

// decodeObject reads a JSON object body, or the form values of a form-encoded body.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, apperr.Validation("Invalid form body", apperr.FieldErrors{
				"non_field_errors": {err.Error()},
			})
		}
		return formObject(r.PostForm), nil
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, apperr.Validation("Invalid form body", apperr.FieldErrors{
				"non_field_errors": {err.Error()},
			})
		}
		return formObject(r.MultipartForm.Value), nil
	}

	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	return validation.DecodeObject(body)
}

func formObject(values map[string][]string) map[string]any {
	obj := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			obj[k] = v[0]
		}
	}
	return obj
}
