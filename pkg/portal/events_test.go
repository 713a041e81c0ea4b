package portal

import "testing"

func TestBusDeliveryOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func(ev Event) { got = append(got, "first") })
	bus.Subscribe(func(ev Event) { got = append(got, "second") })
	bus.Subscribe(func(ev Event) { got = append(got, "third") })

	bus.Publish(Event{Kind: EventNotification})

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery order %v, want %v", got, want)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe(func(Event) { calls++ })
	bus.Publish(Event{Kind: EventNotification})
	unsub()
	bus.Publish(Event{Kind: EventNotification})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestBusSinkLevels(t *testing.T) {
	bus := NewBus()
	var seen []Notification
	bus.Subscribe(func(ev Event) {
		if ev.Kind == EventNotification {
			seen = append(seen, ev.Payload.(Notification))
		}
	})
	sink := BusSink{Bus: bus}
	sink.Info("a")
	sink.Success("b")
	sink.Error("c")
	if len(seen) != 3 || seen[0].Level != LevelInfo || seen[1].Level != LevelSuccess || seen[2].Level != LevelError {
		t.Fatalf("seen = %+v", seen)
	}
}
