// Package identity tracks who the reader is signed in as.
//
// Two providers exist. LocalProvider mints demo identities and keeps the
// current one in the database settings slot. RemoteProvider signs in to a
// document server and holds the bearer token the remote flashcard backend
// sends. Both deliver identity changes to subscribers.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// LocalPrefix marks identities that only exist on this machine.
const LocalPrefix = "local-user-"

var (
	ErrSignInFailed        = errors.New("sign-in failed")
	ErrRemoteNotConfigured = errors.New("remote document server not configured")
)

// Kind distinguishes demo identities from authenticated accounts.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Identity is the owner of a set of flashcards.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// IsLocal reports whether the id has the reserved local shape.
func (i Identity) IsLocal() bool {
	return strings.HasPrefix(i.UserID, LocalPrefix)
}

func (i Identity) Kind() Kind {
	if i.IsLocal() {
		return KindLocal
	}
	return KindRemote
}

// Provider owns the sign-in flow and publishes identity changes.
type Provider interface {
	// Current returns the signed-in identity, or nil.
	Current() *Identity
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	// Subscribe calls fn with the current identity right away and again on
	// every change until the returned function is called.
	Subscribe(fn func(*Identity)) (unsubscribe func())
}

// notifier holds the current identity and its subscribers.
type notifier struct {
	// deliverMu keeps subscribers seeing changes in the order they were set.
	deliverMu sync.Mutex

	mu      sync.Mutex
	current *Identity
	nextID  int
	subs    map[int]func(*Identity)
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]func(*Identity))}
}

func (n *notifier) get() *Identity {
	n.mu.Lock()
	defer n.mu.Unlock()
	return copyIdentity(n.current)
}

// set replaces the identity and notifies subscribers outside mu.
func (n *notifier) set(id *Identity) {
	n.deliverMu.Lock()
	defer n.deliverMu.Unlock()

	n.mu.Lock()
	n.current = copyIdentity(id)
	subs := make([]func(*Identity), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(copyIdentity(id))
	}
}

func (n *notifier) subscribe(fn func(*Identity)) func() {
	n.deliverMu.Lock()
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	current := copyIdentity(n.current)
	n.mu.Unlock()

	fn(current)
	n.deliverMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func copyIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

// IsLocalID reports whether a bare owner id has the reserved local shape.
func IsLocalID(userID string) bool {
	return Identity{UserID: userID}.IsLocal()
}
