package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies. The largest legitimate payload is a
// batch resolution over a few hundred product ids, well under this.
const maxBodyBytes = 1 << 20

// ParseJSON decodes the request body into dest. Unknown fields are
// rejected: the request schemas here are small and fixed, so a misspelled
// field is a client bug worth surfacing, not something to ignore.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	// Trailing content after the JSON value means a malformed request.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: unexpected trailing data")
	}

	return nil
}
