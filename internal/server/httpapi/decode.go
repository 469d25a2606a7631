package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/profilely/internal/common"
)

const maxBodyBytes = 1 << 20

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return common.NewValidationError("body", "invalid JSON body")
	}
	return nil
}

// decodeScalarOrField accepts either a bare JSON string or an object holding
// the value under field.
func decodeScalarOrField(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", common.NewValidationError("body", "invalid JSON body")
	}
	raw = bytes.TrimSpace(raw)

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", common.NewValidationError(field, "field required")
	}
	v, ok := obj[field]
	if !ok {
		return "", common.NewValidationError(field, "field required")
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return "", common.NewValidationError(field, "must be a string")
	}
	return s, nil
}

// formValues reads required url-encoded form fields.
func formValues(r *http.Request, fields ...string) ([]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, common.NewValidationError("body", "invalid form body")
	}
	return requireValues(fields, r.PostFormValue)
}

func queryValues(r *http.Request, fields ...string) ([]string, error) {
	q := r.URL.Query()
	return requireValues(fields, q.Get)
}

func requireValues(fields []string, get func(string) string) ([]string, error) {
	out := make([]string, len(fields))
	ve := &common.ValidationError{Fields: map[string]string{}}
	for i, f := range fields {
		out[i] = get(f)
		if out[i] == "" {
			ve.Fields[f] = "field required"
		}
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}
	return out, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, common.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
