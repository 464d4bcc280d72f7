package interfaces

// SettingsProviderInterface exposes the player-facing leaderboard toggles.
// The ranking engine only reads them.
type SettingsProviderInterface interface {
	PracticeMode() bool
	Anonymous() bool
}
