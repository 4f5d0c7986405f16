package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"fullstack/internal/apperr"
	middlewarex "fullstack/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

type errorBody struct {
	Success     bool   `json:"success"`
	Error       int    `json:"error"`
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// WriteError renders err as the standard failure envelope. Only the stable
// message for the status reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.AuthError
	if errors.As(err, &ae) {
		writeJSON(w, ae.Status, errorBody{
			Error:       ae.Status,
			Message:     ae.Message(),
			Code:        ae.Code,
			Description: ae.Description,
		})
		return
	}

	kind := apperr.KindOf(err)
	ev := log.Warn()
	if kind == apperr.KindInternal {
		ev = log.Error()
	}
	ev.Err(err).
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", kind.Status()).
		Msg("request failed")

	writeKind(w, kind)
}

func writeKind(w http.ResponseWriter, kind apperr.Kind) {
	writeJSON(w, kind.Status(), errorBody{Error: kind.Status(), Message: kind.Message()})
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeKind(w, apperr.KindNotFound)
}

// MethodNotAllowed answers routes matched with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeKind(w, apperr.KindMethodNotAllowed)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Health answers 200 while the store responds to a ping and 503 otherwise.
// A nil store is treated as always healthy.
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				log.Error().Err(err).Msg("health: store ping failed")
				writeJSON(w, http.StatusServiceUnavailable, healthResponse{Success: false, Status: "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, healthResponse{Success: true, Status: "ok"})
	}
}

// subject names the token holder behind a scoped request, "" when the
// route is public.
func subject(r *http.Request) string {
	if c, ok := middlewarex.Claims(r.Context()); ok && c != nil {
		return c.Subject
	}
	return ""
}

// pageParam reads ?page=, defaulting to 1 when absent or not an integer.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}

func idParam(r *http.Request, op string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.NotFound(op, "invalid id")
	}
	return id, nil
}

// decodeJSON reads one JSON document from the body. An empty body, bad JSON
// or a failed validation is a bad request.
func decodeJSON(r *http.Request, op string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.BadRequest(op, "read body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperr.BadRequest(op, "empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.BadRequest(op, "invalid JSON body")
	}
	if err := validatorInstance().Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return apperr.BadRequest(op, err.Error())
	}
	return nil
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fl != float64(int64(fl)) {
			return errors.New("not an integer")
		}
		n = int64(fl)
	}
	*f = flexInt(n)
	return nil
}
