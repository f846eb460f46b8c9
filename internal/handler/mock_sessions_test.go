package handler

import (
	"net/http"

	"github.com/gatewaystack/okta-connector/internal/session"
)

// mockSessionStore is a mock implementation of the session.Store interface.
type mockSessionStore struct {
	// To mock the Establish method.
	errEstablish error
	established  []session.Record
	// To mock the Destroy method. The current record is consumed by the first
	// Destroy call, mirroring real stores.
	current      *session.Record
	errDestroy   error
	destroyCalls int
}

func (m *mockSessionStore) Establish(_ http.ResponseWriter, _ *http.Request, rec session.Record) error {
	if m.errEstablish != nil {
		return m.errEstablish
	}
	m.established = append(m.established, rec)
	return nil
}

func (m *mockSessionStore) Destroy(_ http.ResponseWriter, _ *http.Request) (session.Record, bool, error) {
	m.destroyCalls++
	if m.errDestroy != nil {
		return session.Record{}, false, m.errDestroy
	}
	if m.current == nil {
		return session.Record{}, false, nil
	}

	rec := *m.current
	m.current = nil
	return rec, true, nil
}
