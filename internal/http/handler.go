package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/ingestq/internal/app"
	"github.com/cesargomez89/ingestq/internal/domain"
	"github.com/cesargomez89/ingestq/internal/http/dto"
	"github.com/cesargomez89/ingestq/internal/logger"
)

// ActorHeader names the operator on whose behalf a request is made.
const ActorHeader = "X-Actor"

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Configs      *app.ConfigService
	Catalog      *app.CatalogService
	Reconciler   *app.Reconciler
	Store        Pinger
	Logger       *logger.Logger
	DefaultActor string
}

func NewHandler(cs *app.ConfigService, cat *app.CatalogService, rec *app.Reconciler, store Pinger, log *logger.Logger, defaultActor string) *Handler {
	return &Handler{
		Configs:      cs,
		Catalog:      cat,
		Reconciler:   rec,
		Store:        store,
		Logger:       log.WithComponent("http"),
		DefaultActor: defaultActor,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/configs", h.ListConfigs)
		r.Post("/configs", h.CreateConfig)
		r.Get("/configs/dispatchable", h.ListDispatchable)
		r.Get("/configs/{id}", h.GetConfig)
		r.Put("/configs/{id}", h.UpdateConfig)
		r.Delete("/configs/{id}", h.DeleteConfig)

		r.Post("/reconcile", h.Reconcile)
		r.Get("/reconcile/status", h.ReconcileStatus)
		r.Get("/priority-log", h.ListPriorityLog)

		r.Get("/sources", h.ListSources)
		r.Post("/sources", h.CreateSource)
		r.Put("/sources/{id}", h.UpdateSource)

		r.Get("/scripts", h.ListScripts)
		r.Post("/scripts", h.CreateScript)
		r.Put("/scripts/{id}", h.UpdateScript)

		r.Get("/queue-master", h.ListQueueInstances)
		r.Post("/queue-master", h.CreateQueueInstance)
		r.Get("/payloads", h.ListPayloads)
	})
}

func (h *Handler) actor(r *http.Request) string {
	if a := strings.TrimSpace(r.Header.Get(ActorHeader)); a != "" {
		return a
	}
	return h.DefaultActor
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfig):
		status = http.StatusBadRequest
	case domain.IsRetryable(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer query parameter; absent means 0.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
