// Package session implements the relay's session membership table: the
// mapping from a 1-byte session id to the set of clients currently
// associated with it, and the fan-out ("publish") operation across that
// set.
package session

import (
	"fmt"
	"sync"

	"github.com/nfcgate/relay/internal/logger"
	"github.com/nfcgate/relay/internal/metrics"
)

// Member is anything that can receive published frames. *relay.Client
// satisfies this; tests use lightweight fakes.
type Member interface {
	// WriteFrame writes a server-output frame (see frame.WriteOut) to the
	// member's underlying connection.
	WriteFrame(payload []byte) error
	// Addr identifies the member for logging.
	Addr() string
}

// LogFunc records a session membership event. Its parameters mirror
// relaylog.Logger.Log except that args are untyped values rather than
// relaylog.Arg, so this package does not depend on relaylog; the caller
// converts the args when it forwards them to relaylog.
type LogFunc func(tag string, origin string, sessionID *uint8, args ...any)

// Registry tracks session membership and publishes frames to session
// members. A zero Registry is not usable; use New.
type Registry struct {
	mu       sync.Mutex
	sessions map[uint8][]Member
	log      LogFunc
}

// New creates an empty Registry. log may be nil, in which case membership
// changes are not recorded.
func New(log LogFunc) *Registry {
	if log == nil {
		log = func(string, string, *uint8, ...any) {}
	}
	return &Registry{
		sessions: make(map[uint8][]Member),
		log:      log,
	}
}

// Join adds client to session's member set if not already present. Session
// id 0 is never tracked by the registry; callers must not call Join with 0.
func (r *Registry) Join(client Member, sessionID uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.sessions[sessionID]
	for _, m := range members {
		if m == client {
			return
		}
	}
	r.sessions[sessionID] = append(members, client)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))

	sid := sessionID
	r.log("server", client.Addr(), &sid, fmt.Sprintf("joined session %d", sessionID))
	logger.Debug("session joined", logger.Session(sessionID), logger.ClientAddr(client.Addr()))
}

// Leave removes client from session's member set. If the session becomes
// empty, its entry is discarded. Leave is a no-op if the client was not a
// member or the session does not exist.
func (r *Registry) Leave(client Member, sessionID uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.sessions[sessionID]
	if !ok {
		return
	}

	idx := -1
	for i, m := range members {
		if m == client {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	members = append(members[:idx], members[idx+1:]...)
	if len(members) == 0 {
		delete(r.sessions, sessionID)
	} else {
		r.sessions[sessionID] = members
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))

	sid := sessionID
	r.log("server", client.Addr(), &sid, fmt.Sprintf("left session %d", sessionID))
	logger.Debug("session left", logger.Session(sessionID), logger.ClientAddr(client.Addr()))
}

// Publish writes each payload in payloads, in order, to every member of
// session other than origin. It returns the number of recipients (members
// minus origin, if origin is a member). Write failures to individual peers
// are swallowed; the relay core must never fail because a peer's socket is
// broken.
func (r *Registry) Publish(sessionID uint8, payloads [][]byte, origin Member) int {
	r.mu.Lock()
	members := append([]Member(nil), r.sessions[sessionID]...)
	r.mu.Unlock()

	recipients := 0
	for _, m := range members {
		if m == origin {
			continue
		}
		recipients++
		for _, payload := range payloads {
			if err := m.WriteFrame(payload); err != nil {
				logger.Debug("publish write failed", logger.ClientAddr(m.Addr()), logger.Err(err))
			}
		}
	}
	return recipients
}

// Members returns a snapshot of the current members of sessionID, for
// diagnostics and tests. The returned slice is a copy.
func (r *Registry) Members(sessionID uint8) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Member(nil), r.sessions[sessionID]...)
}
