package terrain

import "testing"

func TestHitHub_DispatchInRegistrationOrder(t *testing.T) {
	h := newHitHub()

	var got []string
	h.register(func(any, SurfaceInfo) { got = append(got, "a") })
	h.register(func(any, SurfaceInfo) { got = append(got, "b") })
	h.register(func(any, SurfaceInfo) { got = append(got, "c") })

	h.dispatch(nil, SurfaceInfo{})

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestHitHub_UnregisterStopsDelivery(t *testing.T) {
	h := newHitHub()

	calls := 0
	id := h.register(func(any, SurfaceInfo) { calls++ })
	h.unregister(id)
	h.dispatch(nil, SurfaceInfo{})

	if calls != 0 {
		t.Errorf("expected unregistered callback to stay silent, got %d calls", calls)
	}
}

func TestHitHub_UnregisterKeepsOthers(t *testing.T) {
	h := newHitHub()

	var got []int
	id1 := h.register(func(any, SurfaceInfo) { got = append(got, 1) })
	h.register(func(any, SurfaceInfo) { got = append(got, 2) })
	h.unregister(id1)
	h.dispatch(nil, SurfaceInfo{})

	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only the surviving callback, got %v", got)
	}
}

func TestHitHub_IDsMonotonic(t *testing.T) {
	h := newHitHub()

	a := h.register(func(any, SurfaceInfo) {})
	b := h.register(func(any, SurfaceInfo) {})
	h.unregister(a)
	c := h.register(func(any, SurfaceInfo) {})

	if a >= b || b >= c {
		t.Errorf("expected strictly increasing ids, got %d, %d, %d", a, b, c)
	}
}

func TestHitHub_UnregisterUnknownID(t *testing.T) {
	h := newHitHub()
	h.register(func(any, SurfaceInfo) {})

	// Must not panic or disturb the registry.
	h.unregister(999)
	h.unregister(-1)

	fired := 0
	h.register(func(any, SurfaceInfo) { fired++ })
	h.dispatch(nil, SurfaceInfo{})
	if fired != 1 {
		t.Errorf("expected surviving callback to fire once, got %d", fired)
	}
}

func TestHitHub_ClearKeepsCounter(t *testing.T) {
	h := newHitHub()
	a := h.register(func(any, SurfaceInfo) {})
	h.clear()

	h.dispatch(nil, SurfaceInfo{})

	b := h.register(func(any, SurfaceInfo) {})
	if b <= a {
		t.Errorf("expected id after clear to keep increasing, got %d then %d", a, b)
	}
}

func TestHitHub_DispatchPayload(t *testing.T) {
	h := newHitHub()

	type body struct{ name string }
	obj := &body{name: "crate"}
	surface := SurfaceInfo{Exists: true, Height: 3, Material: "snow", Friction: 0.1}

	var gotObj any
	var gotSurface SurfaceInfo
	h.register(func(o any, s SurfaceInfo) {
		gotObj = o
		gotSurface = s
	})
	h.dispatch(obj, surface)

	if gotObj != obj {
		t.Errorf("expected the contact object to pass through unchanged, got %v", gotObj)
	}
	if gotSurface != surface {
		t.Errorf("expected surface %+v, got %+v", surface, gotSurface)
	}
}
