package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/Decentr-net/agora/internal/service"
)

// entityService is a set of verbs every entity service provides.
// D is a payload of add and update, P is a patch of updateFor and R is a record type.
type entityService[D, P, R any] interface {
	Add(ctx context.Context, wallet string, data D, signature string) (R, error)
	Update(ctx context.Context, wallet string, data D, signature string) error
	UpdateFor(ctx context.Context, wallet string, patch P, signature string) error
	Delete(ctx context.Context, wallet string, data service.DeleteData, signature string) error
	QueryOne(ctx context.Context, wallet string, s service.Selector) (R, error)
	QueryList(ctx context.Context, wallet string, s service.Selector) (*service.Page[R], error)
}

func mount[D, P, R any](r chi.Router, entity string, s entityService[D, P, R]) {
	r.Route("/"+entity, func(r chi.Router) {
		r.Post("/add", mutation[D](func(ctx context.Context, wallet string, data D, sig string) (interface{}, error) {
			return s.Add(ctx, wallet, data, sig)
		}))
		r.Post("/update", mutation[D](empty(s.Update)))
		r.Post("/updateFor", mutation[P](empty(s.UpdateFor)))
		r.Post("/delete", mutation[service.DeleteData](empty(s.Delete)))
		r.Post("/queryOne", query(func(ctx context.Context, wallet string, sel service.Selector) (interface{}, error) {
			return s.QueryOne(ctx, wallet, sel)
		}))
		r.Post("/queryList", query(func(ctx context.Context, wallet string, sel service.Selector) (interface{}, error) {
			return s.QueryList(ctx, wallet, sel)
		}))
	})
}

type mutationFunc[T any] func(ctx context.Context, wallet string, data T, signature string) (interface{}, error)

func empty[T any](f func(ctx context.Context, wallet string, data T, signature string) error) mutationFunc[T] {
	return func(ctx context.Context, wallet string, data T, signature string) (interface{}, error) {
		return EmptyResponse{}, f(ctx, wallet, data, signature)
	}
}

func mutation[T any](f mutationFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MutationRequest[T]
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := f(r.Context(), req.Wallet, req.Data, req.Signature)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeOK(w, http.StatusOK, resp)
	}
}

func query(f func(ctx context.Context, wallet string, s service.Selector) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := f(r.Context(), req.Wallet, req.Selector)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeOK(w, http.StatusOK, resp)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidateFailed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrOriginNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpdatingBanned):
		writeError(w, http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, service.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTooFrequent):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		log.WithField("request_id", middleware.GetReqID(r.Context())).
			WithField("path", r.URL.Path).
			WithError(err).Error("failed to process request")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}
