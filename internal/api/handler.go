package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nidhogg/feral/internal/ai"
	"github.com/nidhogg/feral/internal/events"
	"github.com/nidhogg/feral/internal/world"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	system *ai.System
	world  *world.World
	clock  *world.Clock
	bus    *events.Bus
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(system *ai.System, w *world.World, clock *world.Clock, bus *events.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		system: system,
		world:  w,
		clock:  clock,
		bus:    bus,
		logger: logger,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)
		r.Get("/agents", h.listAgents)
		r.Get("/agents/{id}", h.getAgent)
		r.Post("/agents/{id}/behavior", h.assignBehavior)
		r.Get("/agents/{id}/memories", h.getAgentMemories)

		r.Get("/world/status", h.worldStatus)
		r.Post("/clock/speed", h.setClockSpeed)
		r.Get("/events", h.listEvents)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "world": "feral"})
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.system.Agents())
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := h.world.Entity(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entity not found"})
		return
	}

	resp := map[string]any{"id": e.ID}
	if pos, ok := e.Position(); ok {
		resp["position"] = pos
	}
	if c, ok := e.Component(world.ComponentAI); ok {
		if aiComp, ok := c.(*world.AIComponent); ok {
			resp["behavior"] = aiComp.Behavior
		}
	}
	if _, managed := h.system.Tree(id); managed {
		resp["memory_count"] = h.system.Memories().GetSystem(id).Count()
	}
	writeJSON(w, http.StatusOK, resp)
}

type assignBehaviorRequest struct {
	Behavior string `json:"behavior"`
}

func (h *Handler) assignBehavior(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := h.world.Entity(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entity not found"})
		return
	}

	var req assignBehaviorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Behavior == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "behavior is required"})
		return
	}
	if !h.system.AssignBehavior(e, req.Behavior) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown behavior or entity has no ai component"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"entity_id": id,
		"behavior":  req.Behavior,
		"status":    "assigned",
	})
}

func (h *Handler) getAgentMemories(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, managed := h.system.Tree(id); !managed {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no memory system for entity"})
		return
	}
	sys := h.system.Memories().GetSystem(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"entity_id": id,
		"turn":      sys.Turn(),
		"records":   sys.Records(),
	})
}

func (h *Handler) worldStatus(w http.ResponseWriter, r *http.Request) {
	entities := h.world.Entities()
	writeJSON(w, http.StatusOK, map[string]any{
		"world":        "feral",
		"turn":         h.clock.Turn(),
		"speed":        h.clock.Speed(),
		"entity_count": len(entities),
		"agents":       h.system.Agents(),
	})
}

type speedRequest struct {
	Speed float64 `json:"speed"`
}

func (h *Handler) setClockSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Speed <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "speed must be positive"})
		return
	}
	h.clock.SetSpeed(req.Speed)
	writeJSON(w, http.StatusOK, map[string]any{"speed": req.Speed})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.bus.History(limit))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
