package events

import (
	"testing"

	"go.uber.org/zap"
)

func TestBusDispatchByName(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	var got []string
	bus.Subscribe(AITick, func(ev Event) { got = append(got, ev.Name) })

	bus.Emit(AITick, map[string]any{"entity": "npc-1"})
	bus.Emit(AIEntityAdded, map[string]any{"entity": "npc-1"})

	if len(got) != 1 || got[0] != AITick {
		t.Errorf("named subscriber received %v, want one ai:tick", got)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(0, zap.NewNop())
	count := 0
	bus.SubscribeAll(func(Event) { count++ })

	bus.Emit(AIEntityAdded, nil)
	bus.Emit(AIEntityRemoved, nil)
	if count != 2 {
		t.Errorf("catch-all received %d events, want 2", count)
	}
}

func TestBusHistoryBounded(t *testing.T) {
	bus := NewBus(3, zap.NewNop())
	for i := 0; i < 5; i++ {
		bus.Emit(AITick, map[string]any{"i": float64(i)})
	}
	hist := bus.History(10)
	if len(hist) != 3 {
		t.Fatalf("history kept %d events, want 3", len(hist))
	}
	if hist[2].Payload["i"] != float64(4) {
		t.Errorf("history should keep the newest events, got %v", hist[2].Payload)
	}
	if got := bus.History(1); len(got) != 1 || got[0].Payload["i"] != float64(4) {
		t.Errorf("limited history should return the newest, got %v", got)
	}
}
