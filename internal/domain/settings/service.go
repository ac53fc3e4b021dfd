package settings

import "context"

// Provider returns the effective settings.
type Provider interface {
	GetSettings(ctx context.Context) (Settings, error)
}

type SettingsService interface {
	Provider
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
