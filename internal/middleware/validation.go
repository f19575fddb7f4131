package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/plantrent/plantrent/internal/handler"
)

// RequireJSON rejects POST, PUT and PATCH requests whose declared content
// type is not JSON with 422, the status used for every undecodable body.
// A missing Content-Type is accepted and left to the JSON decoder.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		if ct := r.Header.Get("Content-Type"); ct != "" && !isJSONContentType(ct) {
			handler.WriteError(w, http.StatusUnprocessableEntity)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
