// Package hooks provides helpers for invoking optional lifecycle hooks.
package hooks

import (
	"context"

	"github.com/denispionicul/party/types"
)

// Normalize returns hooks with every nil callback replaced by a no-op, so
// callers can invoke them without nil checks.
func Normalize(h types.Hooks) types.Hooks {
	if h.OnPartyCreated == nil {
		h.OnPartyCreated = nopPartyHook
	}
	if h.OnPartyDestroyed == nil {
		h.OnPartyDestroyed = nopPartyHook
	}
	if h.OnStateChanged == nil {
		h.OnStateChanged = nopStateHook
	}
	if h.OnServerStarted == nil {
		h.OnServerStarted = nopPartyHook
	}
	if h.OnError == nil {
		h.OnError = nopErrorHook
	}
	return h
}

func nopPartyHook(_ context.Context, _ string) error { return nil }

func nopStateHook(_ context.Context, _ string, _, _ types.PartyState) error { return nil }

func nopErrorHook(_ context.Context, _ error) error { return nil }
