package mqtt

import "sync"

// FakeClient records published status records and lets tests inject
// inbound commands.
type FakeClient struct {
	mu sync.Mutex

	// Statuses contains all status records that were published.
	Statuses []Status

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by PublishStatus.
	PublishError error

	// Connected controls the return value of IsConnected.
	Connected bool

	// Closed tracks if Close was called.
	Closed bool

	commands chan []byte
}

// NewFakeClient creates a FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{commands: make(chan []byte, 16), Connected: true}
}

// PublishStatus records the status.
func (f *FakeClient) PublishStatus(s Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}

	f.Statuses = append(f.Statuses, s)

	payload, err := FormatStatus(s)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Inject delivers a raw command payload as if it arrived from the broker.
func (f *FakeClient) Inject(payload []byte) {
	f.commands <- payload
}

// Commands returns the inbound command channel.
func (f *FakeClient) Commands() <-chan []byte {
	return f.commands
}

// IsConnected reports the scripted connection state.
func (f *FakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// StatusesSnapshot returns a copy of the recorded statuses.
func (f *FakeClient) StatusesSnapshot() []Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Status, len(f.Statuses))
	copy(out, f.Statuses)
	return out
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
