// Package service holds the view models behind each CardVault page. Every page
// keeps its state behind a mutex, loads on Load and records the last failure
// instead of retrying.
package service

import (
	"sync"
	"time"

	"github.com/cardvault-cli/internal/logging"
)

const (
	// SettingsStatusTTL is how long the settings save status stays visible
	SettingsStatusTTL = 2 * time.Second
	// UpgradeMessageTTL is how long the upgrade message stays visible
	UpgradeMessageTTL = 5 * time.Second
)

// flash is a message that clears itself after ttl
type flash struct {
	ttl time.Duration

	mu    sync.Mutex
	text  string
	seq   uint64
	timer *time.Timer
}

func newFlash(ttl time.Duration) *flash {
	return &flash{ttl: ttl}
}

func (f *flash) Set(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.seq++
	seq := f.seq
	f.text = text
	f.timer = time.AfterFunc(f.ttl, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.seq == seq {
			f.text = ""
		}
	})
}

func (f *flash) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.seq++
	f.text = ""
}

func (f *flash) Get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func pageLogger(logger *logging.Logger, page string) *logging.Logger {
	if logger == nil {
		logger = logging.Nop()
	}
	return logger.WithField("page", page)
}
