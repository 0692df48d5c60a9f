package habits

// EventType names a change observed by subscribers.
type EventType string

const (
	EventHabitAdded        EventType = "habit_added"
	EventHabitUpdated      EventType = "habit_updated"
	EventHabitDeleted      EventType = "habit_deleted"
	EventCompletionToggled EventType = "completion_toggled"
	EventReloaded          EventType = "reloaded"
)

// Event describes a committed change. HabitID and Date are set when they apply.
type Event struct {
	Type    EventType
	HabitID string
	Date    string
}

// Subscribe registers fn for change events and returns a function that
// removes it. Handlers run synchronously after the change is committed.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Service) emit(e Event) {
	s.subMu.Lock()
	handlers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		handlers = append(handlers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}
