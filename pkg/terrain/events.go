package terrain

// HitFunc is invoked for every terrain contact reported by the host
// physics system: the body that touched the terrain and the surface under
// the contact point.
type HitFunc func(object any, surface SurfaceInfo)

// hitHub fans terrain contacts out to registered callbacks in registration
// order. Ids are process-local, monotonic and never reused. Registering or
// unregistering from inside a callback is not supported.
type hitHub struct {
	nextID int
	order  []int
	byID   map[int]HitFunc
}

func newHitHub() *hitHub {
	return &hitHub{
		nextID: 1,
		byID:   make(map[int]HitFunc),
	}
}

func (h *hitHub) register(fn HitFunc) int {
	id := h.nextID
	h.nextID++
	h.order = append(h.order, id)
	h.byID[id] = fn
	return id
}

func (h *hitHub) unregister(id int) {
	if _, ok := h.byID[id]; !ok {
		return
	}
	delete(h.byID, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *hitHub) dispatch(object any, surface SurfaceInfo) {
	for _, id := range h.order {
		if fn, ok := h.byID[id]; ok {
			fn(object, surface)
		}
	}
}

// clear drops every callback. The id counter keeps running so ids stay
// unique across a dispose/reuse cycle.
func (h *hitHub) clear() {
	h.order = nil
	h.byID = make(map[int]HitFunc)
}
