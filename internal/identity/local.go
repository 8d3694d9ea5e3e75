package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/interlinear/internal/entities"
)

const demoDisplayName = "Demo User"

// SettingsStore is the durable slot the local identity lives in.
type SettingsStore interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// LocalProvider signs readers in as demo identities without any server.
type LocalProvider struct {
	settings SettingsStore

	// signInMu covers check, mint, persist and publish as one step.
	signInMu sync.Mutex

	*notifier
}

// NewLocalProvider restores a previously signed-in identity from settings.
// A corrupt slot is logged and treated as signed out.
func NewLocalProvider(settings SettingsStore) (*LocalProvider, error) {
	p := &LocalProvider{settings: settings, notifier: newNotifier()}

	setting, err := settings.GetSetting(entities.SettingKeyLocalIdentity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read identity slot: %w", err)
	}

	var id Identity
	if err := json.Unmarshal([]byte(setting.Value), &id); err != nil || id.UserID == "" {
		log.Printf("[IDENTITY] Ignoring unreadable identity slot: %v", err)
		return p, nil
	}
	p.current = &id
	return p, nil
}

func (p *LocalProvider) Current() *Identity {
	return p.get()
}

// SignIn mints a fresh demo identity unless one is already signed in.
func (p *LocalProvider) SignIn(_ context.Context) error {
	p.signInMu.Lock()
	defer p.signInMu.Unlock()

	if p.get() != nil {
		return nil
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}
	id := &Identity{
		UserID:      LocalPrefix + hex.EncodeToString(suffix),
		DisplayName: demoDisplayName,
	}

	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}
	if err := p.settings.SetSetting(entities.SettingKeyLocalIdentity, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrSignInFailed, err)
	}

	log.Printf("[IDENTITY] Signed in as %s", id.UserID)
	p.set(id)
	return nil
}

// SignOut clears the slot. Flashcards already saved stay in the store.
func (p *LocalProvider) SignOut(_ context.Context) error {
	p.signInMu.Lock()
	defer p.signInMu.Unlock()

	if err := p.settings.DeleteSetting(entities.SettingKeyLocalIdentity); err != nil {
		return fmt.Errorf("failed to clear identity slot: %w", err)
	}
	log.Printf("[IDENTITY] Signed out")
	p.set(nil)
	return nil
}

func (p *LocalProvider) Subscribe(fn func(*Identity)) func() {
	return p.subscribe(fn)
}
