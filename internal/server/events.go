package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/session"
)

// Event types.
const (
	EventState      = "state"
	EventOverLimit  = "over_limit"
	EventUnderLimit = "under_limit"
)

// Event is emitted for every applied command, plus one per warning signal.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command,omitempty"`
	Message   string    `json:"message,omitempty"`
	Total     string    `json:"total"`
	Limit     string    `json:"limit"`
}

// commit stores the post-command state and publishes its events. Called on
// the owner goroutine so event order matches apply order.
func (s *Service) commit(out session.Outcome, st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.metrics.observeState(st)

	now := time.Now()
	base := Event{
		Timestamp: now,
		Command:   out.Command.String(),
		Total:     st.Total.String(),
		Limit:     st.Limit.String(),
	}

	ev := base
	ev.Type = EventState
	ev.Message = out.Message
	s.publishEvent(ev)

	switch out.Result.Signal {
	case ledger.SignalOverLimit:
		ev := base
		ev.Type = EventOverLimit
		ev.Message = ledger.WarningText
		s.publishEvent(ev)
		s.metrics.signals.WithLabelValues(EventOverLimit).Inc()
	case ledger.SignalUnderLimit:
		ev := base
		ev.Type = EventUnderLimit
		s.publishEvent(ev)
		s.metrics.signals.WithLabelValues(EventUnderLimit).Inc()
	}
}

// publishEvent assigns an id when ev has none, appends to the ring buffer
// and fans out without blocking on slow subscribers.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	if ev.ID == 0 {
		s.nextEventID++
		ev.ID = s.nextEventID
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Events returns a copy of the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Events())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current state immediately.
	st := s.State()
	writeSSE(w, Event{
		Type:      EventState,
		Timestamp: time.Now(),
		Message:   st.Header,
		Total:     st.Total.String(),
		Limit:     st.Limit.String(),
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Set(float64(len(s.subs)))
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
	s.metrics.subscribers.Set(float64(len(s.subs)))
}
