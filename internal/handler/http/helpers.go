package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// decodeJSON reads the body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("Request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return auth.Actor{}, false
	}
	return actor, true
}

func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func intQuery(r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// monthQuery returns ?month, defaulting to the current month in loc.
func monthQuery(r *http.Request, loc *time.Location) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return period.Month(time.Now().In(loc))
}

func invalidID(w http.ResponseWriter, field string) {
	response.HandleError(w, validator.ValidationErrors{{Field: field, Message: "invalid " + field}})
}

// idParam reads a UUID path parameter, answering 422 when it is malformed.
func idParam(w http.ResponseWriter, r *http.Request, name, field string) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		invalidID(w, field)
		return "", false
	}
	return id, true
}

// idQuery is the optional query-string counterpart of idParam.
func idQuery(w http.ResponseWriter, r *http.Request, key string) (*string, bool) {
	id := optionalQuery(r, key)
	if id != nil && !validator.IsValidUUID(*id) {
		invalidID(w, key)
		return nil, false
	}
	return id, true
}
