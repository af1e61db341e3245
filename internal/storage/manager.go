package storage

import (
	"context"
	"log"
	"sync"
	"time"
)

// Storage kinds reported by Manager.Info.
const (
	KindDatabase = "database"
	KindMock     = "mock"
	KindUnknown  = "unknown"
)

// Info describes which backend the manager settled on.
type Info struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// OpenFunc constructs the persistent adapter. It is injected so tests can
// substitute a slow or failing opener.
type OpenFunc func(ctx context.Context) (Storage, error)

// DefaultProbeTimeout bounds the connectivity probe when no timeout is
// configured.
const DefaultProbeTimeout = 5 * time.Second

// Manager decides once per process whether to serve the persistent adapter
// or the in-memory fallback, and hands the chosen handle to every caller.
//
// The probe runs at most once: concurrent first calls to Get share a single
// in-flight probe and block until it settles. The decision is permanent for
// the process lifetime except through an explicit Reprobe, which is the
// operator's escape hatch from a stuck mock fallback.
type Manager struct {
	open    OpenFunc
	timeout time.Duration

	once sync.Once

	mu     sync.RWMutex
	active Storage
	kind   string
}

func NewManager(open OpenFunc, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Manager{open: open, timeout: timeout, kind: KindUnknown}
}

// Get returns the active storage handle, probing the database on the first
// call. It never fails: any probe error is absorbed into the fallback
// decision.
func (m *Manager) Get(ctx context.Context) Storage {
	m.once.Do(func() { m.probe(ctx) })

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Reprobe re-runs the connectivity probe and returns the resulting
// descriptor. A process stuck on the mock fallback can be moved back to the
// database this way once connectivity is restored. Never runs automatically.
func (m *Manager) Reprobe(ctx context.Context) Info {
	m.once.Do(func() {})
	m.probe(ctx)
	return m.Info()
}

// probe attempts one lightweight read against a freshly opened persistent
// adapter, bounded by the configured timeout.
func (m *Manager) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	st, err := m.open(probeCtx)
	if err == nil {
		_, err = st.GetTasks(probeCtx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		log.Printf("storage: database unavailable, falling back to mock storage: %v", err)
		// Keep an existing mock across reprobes so its data survives.
		if m.kind != KindMock {
			m.active = NewMemoryStorage()
		}
		m.kind = KindMock
		return
	}

	log.Println("storage: connected to PostgreSQL database")
	m.active = st
	m.kind = KindDatabase
}

// UsingMock reports whether the manager settled on the in-memory fallback.
func (m *Manager) UsingMock() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kind == KindMock
}

// Info returns a descriptor of the cached decision. Before the first probe
// the kind is "unknown"; the server probes eagerly at startup, so callers
// normally never see that state.
func (m *Manager) Info() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch m.kind {
	case KindDatabase:
		return Info{
			Kind:    KindDatabase,
			Message: "Connected to PostgreSQL database successfully.",
		}
	case KindMock:
		return Info{
			Kind:    KindMock,
			Message: "Using mock storage with sample data for demonstration. Database connection may need configuration.",
		}
	default:
		return Info{
			Kind:    KindUnknown,
			Message: "Storage has not been probed yet.",
		}
	}
}
