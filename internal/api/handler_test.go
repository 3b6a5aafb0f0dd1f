package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nidhogg/feral/internal/ai"
	"github.com/nidhogg/feral/internal/behavior"
	"github.com/nidhogg/feral/internal/events"
	"github.com/nidhogg/feral/internal/memory"
	"github.com/nidhogg/feral/internal/world"
	"go.uber.org/zap"
)

// newTestHandler creates a Handler wired with an in-memory world (no Redis).
func newTestHandler(t *testing.T) (*Handler, *world.World, *ai.System, http.Handler) {
	t.Helper()
	logger := zap.NewNop()

	w := world.New(world.NewGrid(8, 8), logger)
	bus := events.NewBus(64, logger)
	manager := memory.NewManager(memory.DefaultDecayPolicy(), logger)
	system := ai.NewSystem(manager, w, w, bus, logger)
	system.RegisterBehavior("idle", func(e *world.Entity) *behavior.Tree {
		return behavior.NewTree(behavior.NewAction(func(ctx *behavior.Context) behavior.Status {
			return behavior.StatusSuccess
		}), e)
	})

	clock := world.NewClock(100*time.Millisecond, 1.0, 10*time.Second, logger)

	h := NewHandler(system, w, clock, bus, logger)
	return h, w, system, h.Router()
}

func spawnNPC(t *testing.T, w *world.World, sys *ai.System, id string, x, y int) *world.Entity {
	t.Helper()
	e := world.NewEntity(id)
	e.SetComponent(world.ComponentPosition, &world.PositionComponent{Pos: world.Position{X: x, Y: y}})
	e.SetComponent(world.ComponentAI, &world.AIComponent{})
	w.Spawn(e)
	if !sys.AssignBehavior(e, "idle") {
		t.Fatalf("assign behavior to %s", id)
	}
	sys.OnEntityAdded(e)
	return e
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- Tests ---

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/health")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
	if body["world"] != "feral" {
		t.Errorf("expected world feral, got %q", body["world"])
	}
}

func TestListAgents(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-a", 1, 1)
	spawnNPC(t, w, sys, "npc-b", 2, 2)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/agents")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var agents []ai.AgentInfo
	decodeJSON(t, resp, &agents)
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}
	if agents[0].EntityID != "npc-a" || agents[1].EntityID != "npc-b" {
		t.Errorf("agents out of order: %+v", agents)
	}
}

func TestGetAgent(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-1", 3, 4)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/agents/npc-1")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	decodeJSON(t, resp, &body)
	if body["id"] != "npc-1" {
		t.Errorf("id = %v", body["id"])
	}
	if body["behavior"] != "idle" {
		t.Errorf("behavior = %v", body["behavior"])
	}

	resp = getJSON(t, ts, "/api/agents/ghost")
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 for unknown entity, got %d", resp.StatusCode)
	}
}

func TestAssignBehavior(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-1", 1, 1)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/api/agents/npc-1/behavior", map[string]string{"behavior": "idle"})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/api/agents/npc-1/behavior", map[string]string{"behavior": "nonexistent"})
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422 for unknown behavior, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/api/agents/npc-1/behavior", map[string]string{})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for missing behavior, got %d", resp.StatusCode)
	}
}

func TestGetAgentMemories(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-1", 1, 1)
	mem := sys.Memories().GetSystem("npc-1")
	mem.RememberEvent("noise", "heard something to the east", memory.EventOpts{})
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/agents/npc-1/memories")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		EntityID string           `json:"entity_id"`
		Records  []*memory.Record `json:"records"`
	}
	decodeJSON(t, resp, &body)
	if body.EntityID != "npc-1" {
		t.Errorf("entity_id = %q", body.EntityID)
	}
	if len(body.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(body.Records))
	}

	resp = getJSON(t, ts, "/api/agents/ghost/memories")
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 for unmanaged entity, got %d", resp.StatusCode)
	}
}

func TestWorldStatus(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-1", 1, 1)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/api/world/status")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	decodeJSON(t, resp, &body)
	if body["entity_count"] != float64(1) {
		t.Errorf("entity_count = %v", body["entity_count"])
	}
	if body["speed"] != 1.0 {
		t.Errorf("speed = %v", body["speed"])
	}
}

func TestSetClockSpeed(t *testing.T) {
	h, _, _, router := newTestHandler(t)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/api/clock/speed", map[string]float64{"speed": 4.0})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := h.clock.Speed(); got != 4.0 {
		t.Errorf("clock speed = %v, want 4.0", got)
	}

	resp = postJSON(t, ts, "/api/clock/speed", map[string]float64{"speed": -1})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for negative speed, got %d", resp.StatusCode)
	}
}

func TestListEvents(t *testing.T) {
	_, w, sys, router := newTestHandler(t)
	spawnNPC(t, w, sys, "npc-1", 1, 1)
	ts := httptest.NewServer(router)
	defer ts.Close()

	// The spawn above emitted ai:entityAdded onto the bus.
	resp := getJSON(t, ts, "/api/events?limit=10")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var evts []events.Event
	decodeJSON(t, resp, &evts)
	if len(evts) == 0 {
		t.Fatal("expected at least one event")
	}

	resp = getJSON(t, ts, "/api/events?limit=zero")
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for bad limit, got %d", resp.StatusCode)
	}
}
