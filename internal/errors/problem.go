package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails is an RFC 7807 error body. Extensions are flattened into
// the top-level object next to the standard members.
type ProblemDetails struct {
	Type       string
	Title      string
	Status     int
	Detail     string
	Instance   string
	Extensions map[string]interface{}
}

// NewProblemDetails creates a problem. Empty detail and instance are omitted
// from the JSON body.
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WithExtension sets an extension member. Keys that collide with a standard
// member are ignored when the problem is encoded.
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]interface{})
	}
	pd.Extensions[key] = value
	return pd
}

// Render sets the response status for go-chi/render
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	body := make(map[string]interface{}, len(pd.Extensions)+5)
	for k, v := range pd.Extensions {
		body[k] = v
	}

	body["type"] = pd.Type
	body["title"] = pd.Title
	body["status"] = pd.Status
	delete(body, "detail")
	delete(body, "instance")
	if pd.Detail != "" {
		body["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		body["instance"] = pd.Instance
	}
	return json.Marshal(body)
}
