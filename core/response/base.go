package response

import (
	"net/http"

	"github.com/dmitrymomot/liftoff/core/handler"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return Bytes([]byte(content), contentTypeText, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return Bytes([]byte(content), contentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return Bytes([]byte(content), contentTypeHTML, http.StatusOK)
}

// Bytes writes content with the given content type and status.
// A zero status means 200 OK; an empty content type leaves the header unset.
func Bytes(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 || r.Method == http.MethodHead {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		return nil
	}
}

// Redirect responds with a redirect to url. A zero code means 302 Found.
func Redirect(url string, code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if code == 0 {
			code = http.StatusFound
		}
		http.Redirect(w, r, url, code)
		return nil
	}
}

// Error returns a response that forwards err to the matching catcher without
// writing anything itself.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

// Handler serves the request with h.
func Handler(h http.Handler) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}
