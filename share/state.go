package share

import (
	"context"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

const (
	SessionsTTL = 10 * time.Second
	SettingsTTL = 30 * time.Second

	sessionsKey = "sessions"
	settingsKey = "settings"
)

var (
	sessionsCache = ttlworker.NewCache[string, []types.Session](SessionsTTL)
	settingsCache = ttlworker.NewCache[string, *types.Settings](SettingsTTL)
)

// GetSessions returns the backend session list, served from the TTL cache
// when fresh so UI polling doesn't hammer the backend.
func GetSessions(ctx context.Context, gw *gateway.Client) ([]types.Session, error) {
	if cached := sessionsCache.Get(sessionsKey); cached != nil {
		return cached, nil
	}
	resp, err := gw.GetSessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions := resp.Sessions
	if sessions == nil {
		sessions = []types.Session{}
	}
	sessionsCache.Set(sessionsKey, sessions)
	tool.DefaultLogger.Debugf("Cached %d sessions", len(sessions))
	return sessions, nil
}

// InvalidateSessions drops the cached session list. Called after session
// create/delete and after chat messages update previews.
func InvalidateSessions() {
	sessionsCache.Delete(sessionsKey)
}

// GetSettings returns the backend settings, served from the TTL cache when
// fresh.
func GetSettings(ctx context.Context, gw *gateway.Client) (*types.Settings, error) {
	if cached := settingsCache.Get(settingsKey); cached != nil {
		return cached, nil
	}
	settings, err := gw.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	settingsCache.Set(settingsKey, settings)
	return settings, nil
}

// StoreSettings replaces the cached settings after a successful update.
func StoreSettings(settings *types.Settings) {
	if settings == nil {
		settingsCache.Delete(settingsKey)
		return
	}
	settingsCache.Set(settingsKey, settings)
}
