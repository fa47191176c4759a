package httpapp

import (
	"net/http"

	"github.com/cesargomez89/ingestq/internal/app"
	"github.com/cesargomez89/ingestq/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Configs.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}

func (h *Handler) ListDispatchable(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Configs.Dispatchable(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configs)
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Configs.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	c, err := h.Configs.Create(r.Context(), req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.ConfigRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	c, err := h.Configs.Update(r.Context(), id, req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Configs.Delete(r.Context(), id, h.actor(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reconciler.Reconcile(r.Context(), app.TriggerManual)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) ReconcileStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Reconciler.LastPass(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if status == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"pass_id": nil})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) ListPriorityLog(w http.ResponseWriter, r *http.Request) {
	configID, ok := queryID(w, r, "config_id")
	if !ok {
		return
	}
	entries, err := h.Configs.PriorityLog(r.Context(), configID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Catalog.ListSources(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req dto.SourceRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	src, err := h.Catalog.CreateSource(r.Context(), req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, src)
}

func (h *Handler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.SourceRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	src, err := h.Catalog.UpdateSource(r.Context(), id, req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

func (h *Handler) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.Catalog.ListScripts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scripts)
}

func (h *Handler) CreateScript(w http.ResponseWriter, r *http.Request) {
	var req dto.ScriptRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	script, err := h.Catalog.CreateScript(r.Context(), req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, script)
}

func (h *Handler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.ScriptRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	script, err := h.Catalog.UpdateScript(r.Context(), id, req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (h *Handler) ListQueueInstances(w http.ResponseWriter, r *http.Request) {
	configID, ok := queryID(w, r, "config_id")
	if !ok {
		return
	}
	instances, err := h.Catalog.ListQueueInstances(r.Context(), configID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (h *Handler) CreateQueueInstance(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueInstanceRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	q, err := h.Catalog.CreateQueueInstance(r.Context(), req.ToInput(), h.actor(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) ListPayloads(w http.ResponseWriter, r *http.Request) {
	configID, ok := queryID(w, r, "config_id")
	if !ok {
		return
	}
	payloads, err := h.Catalog.ListPayloads(r.Context(), configID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payloads)
}
