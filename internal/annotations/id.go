package annotations

import (
	"fmt"
	"strings"
)

// BackendKind names the backend a flashcard lives in.
type BackendKind string

const (
	BackendLocal  BackendKind = "local"
	BackendRemote BackendKind = "remote"
)

const localIDPrefix = "local-"

// FlashcardID is a flashcard id tagged with the backend that created it.
// Delete routes on the tag, never on the caller's identity.
type FlashcardID struct {
	Kind BackendKind
	Key  string
}

// LocalID tags a key minted by the local backend.
func LocalID(key string) FlashcardID {
	return FlashcardID{Kind: BackendLocal, Key: key}
}

// RemoteID tags an id assigned by the document server.
func RemoteID(key string) FlashcardID {
	return FlashcardID{Kind: BackendRemote, Key: key}
}

// String is the wire form: "local-<key>" or the bare remote id.
func (id FlashcardID) String() string {
	if id.Kind == BackendLocal {
		return localIDPrefix + id.Key
	}
	return id.Key
}

// ParseFlashcardID recovers the tag from the wire form.
func ParseFlashcardID(s string) (FlashcardID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlashcardID{}, fmt.Errorf("%w: empty id", ErrInvalidID)
	}
	if key, ok := strings.CutPrefix(s, localIDPrefix); ok {
		if key == "" {
			return FlashcardID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		return LocalID(key), nil
	}
	return RemoteID(s), nil
}
