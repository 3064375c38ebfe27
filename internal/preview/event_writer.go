package preview

import (
	"io"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"
)

// EventWriter writes JSON Lines (one event per line) to an io.Writer.
// It is safe for concurrent use by multiple goroutines.
type EventWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEventWriter creates an EventWriter that writes to w.
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

// Send marshals the event as JSON and writes it as a single line followed by a newline.
// The write is atomic: the mutex ensures no interleaving with concurrent Send calls.
func (ew *EventWriter) Send(event *structpb.Struct) error {
	data, err := MarshalEvent(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	ew.mu.Lock()
	defer ew.mu.Unlock()

	_, err = ew.w.Write(data)
	return err
}

// MarshalEvent serializes an event to single-line JSON using protojson.
func MarshalEvent(e *structpb.Struct) ([]byte, error) {
	return jsonMarshalOpts.Marshal(e)
}

// UnmarshalCommand deserializes a JSON command.
func UnmarshalCommand(data []byte) (*structpb.Struct, error) {
	cmd := &structpb.Struct{}
	if err := jsonUnmarshalOpts.Unmarshal(data, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
