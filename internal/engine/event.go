package engine

// ListenerID identifies a listener so it can be removed later. Zero is never
// a valid ID.
type ListenerID uint32

// Event is a multi-cast event without an argument.
type Event struct {
	EventWithArg[struct{}]
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event) AddListener(callback func()) ListenerID {
	if callback == nil {
		return 0
	}
	return e.EventWithArg.AddListener(func(struct{}) { callback() })
}

// Invoke calls all registered listeners
func (e *Event) Invoke() {
	e.EventWithArg.Invoke(struct{}{})
}

// EventWithArg is a multi-cast event with one argument. Listeners run in the
// order they were added. Listeners added or removed while the event fires
// take effect on the next Invoke.
type EventWithArg[T any] struct {
	listeners []listener[T]
	nextID    ListenerID
	spare     []listener[T] // reused snapshot buffer; nil while firing
}

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener drops the listener with id. Unknown ids are ignored.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	if len(e.listeners) == 0 {
		return
	}
	// a listener may add or remove listeners, or fire this event again
	snapshot := append(e.spare[:0], e.listeners...)
	e.spare = nil
	for _, l := range snapshot {
		l.fn(arg)
	}
	e.spare = snapshot[:0]
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
