package publishers

import (
	"sync"
	"testing"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingLogger) record(key string) {
	r.mu.Lock()
	r.entries = append(r.entries, key)
	r.mu.Unlock()
}

func (r *recordingLogger) InfoObj(_, key string, _ interface{})  { r.record(key) }
func (r *recordingLogger) DebugObj(_, key string, _ interface{}) { r.record(key) }
func (r *recordingLogger) WarnObj(_, key string, _ interface{})  { r.record(key) }
func (r *recordingLogger) ErrorObj(_, key string, _ interface{}) { r.record(key) }

func (r *recordingLogger) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

func TestEventAttributesSkipEmptyValues(t *testing.T) {
	attrs := NewEvent(ActionFavouriteAdded, "img-1", " ").attributes()
	if len(attrs) != 2 || attrs["action"] != ActionFavouriteAdded || attrs["image_id"] != "img-1" {
		t.Fatalf("unexpected attributes %v", attrs)
	}
}

func TestNewSinkDefaultsLogger(t *testing.T) {
	s := newSink(SinkConfig{ID: "hook", Type: TypeHTTP}, nil)
	if s.ID() != "hook" || s.Type() != TypeHTTP || s.log == nil {
		t.Fatalf("unexpected sink %#v", s)
	}
	// Must not panic without a configured logger.
	s.delivered(NewEvent(ActionFavouriteAdded, "img-1", ""), "")
}
