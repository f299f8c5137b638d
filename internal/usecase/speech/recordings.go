package speech

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/resumechat/internal/domain"
	"github.com/kailas-cloud/resumechat/internal/domain/speech"
)

// DefaultRecordingTTL bounds how long an idle recording is kept.
const DefaultRecordingTTL = 5 * time.Minute

type recording struct {
	contentType string
	buf         bytes.Buffer
	touched     time.Time
}

// Recordings buffers client-uploaded audio chunks until Stop or Cancel.
// Recordings idle for longer than the TTL are dropped lazily.
type Recordings struct {
	mu   sync.Mutex
	recs map[string]*recording
	ttl  time.Duration
	now  func() time.Time
}

// NewRecordings creates an empty registry.
func NewRecordings(ttl time.Duration) *Recordings {
	if ttl <= 0 {
		ttl = DefaultRecordingTTL
	}
	return &Recordings{recs: make(map[string]*recording), ttl: ttl, now: time.Now}
}

// Start opens a recording and returns its id.
func (r *Recordings) Start(contentType string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	id := uuid.NewString()
	r.recs[id] = &recording{contentType: contentType, touched: r.now()}
	return id
}

// Append adds a chunk to an open recording.
func (r *Recordings) Append(id string, chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	rec, ok := r.recs[id]
	if !ok {
		return domain.ErrNoActiveRecording
	}
	if rec.buf.Len()+len(chunk) > speech.MaxAudioBytes {
		return fmt.Errorf("recording exceeds %d bytes: %w", speech.MaxAudioBytes, domain.ErrAudioTooLarge)
	}
	rec.buf.Write(chunk)
	rec.touched = r.now()
	return nil
}

// Stop closes a recording and returns its bytes and content type.
func (r *Recordings) Stop(id string) ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	rec, ok := r.recs[id]
	if !ok {
		return nil, "", domain.ErrNoActiveRecording
	}
	delete(r.recs, id)

	if rec.buf.Len() < speech.MinRecordingBytes {
		return nil, "", fmt.Errorf("%d bytes: %w", rec.buf.Len(), domain.ErrRecordingTooShort)
	}
	return rec.buf.Bytes(), rec.contentType, nil
}

// Cancel discards a recording. Unknown ids are ignored.
func (r *Recordings) Cancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recs, id)
}

// Len returns the number of open recordings.
func (r *Recordings) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recs)
}

// sweep drops idle recordings. Caller holds mu.
func (r *Recordings) sweep() {
	cutoff := r.now().Add(-r.ttl)
	for id, rec := range r.recs {
		if rec.touched.Before(cutoff) {
			delete(r.recs, id)
		}
	}
}
