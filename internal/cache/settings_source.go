package cache

import "context"

// SettingsSource adapte GetSettings pour le gate de visibilité
type SettingsSource struct{}

func (SettingsSource) PublicWishlist(ctx context.Context) (bool, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings.PublicWishlist, nil
}
