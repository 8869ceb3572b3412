package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code. The body
// is marshaled up front so an encoding failure never leaks a partial
// response after headers have gone out.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail is an RFC 7807 problem details body. Extra fields are
// flattened into the top level on marshal, which is where RFC 7807 puts
// extension members.
type ProblemDetail struct {
	Type   string                 `json:"type"`
	Title  string                 `json:"title"`
	Status int                    `json:"status"`
	Detail string                 `json:"detail,omitempty"`
	Extra  map[string]interface{} `json:"-"`
}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	for k, v := range p.Extra {
		m[k] = v
	}
	return json.Marshal(m)
}

// RespondError writes an RFC 7807 problem response.
func RespondError(w http.ResponseWriter, status int, detail string) {
	writeProblem(w, ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

// RespondErrorWithExtras writes an RFC 7807 problem response carrying
// extension members, used for structured denial reasons.
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]interface{}) {
	writeProblem(w, ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Extra:  extras,
	})
}

func writeProblem(w http.ResponseWriter, problem ProblemDetail) {
	payload, err := json.Marshal(problem)
	if err != nil {
		// Last resort: plain text so the client at least sees a failure.
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	w.Write(payload)
}

// problemType returns the RFC 9110 section URI for a status code.
func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-400-bad-request"
	case http.StatusUnauthorized:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-401-unauthorized"
	case http.StatusForbidden:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-403-forbidden"
	case http.StatusNotFound:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-404-not-found"
	case http.StatusInternalServerError:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-500-internal-server-error"
	case http.StatusServiceUnavailable:
		return "https://www.rfc-editor.org/rfc/rfc9110#name-503-service-unavailable"
	default:
		return "about:blank"
	}
}
