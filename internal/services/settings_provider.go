package services

import (
	"runboard/internal/leaderboard/interfaces"
	"runboard/internal/structures"

	"go.uber.org/atomic"
)

// SettingsProvider holds the player toggles. HTTP handlers flip them while the
// ranking engine reads them, so both are atomics.
type SettingsProvider struct {
	practice  atomic.Bool
	anonymous atomic.Bool
}

func (s *SettingsProvider) PracticeMode() bool { return s.practice.Load() }
func (s *SettingsProvider) Anonymous() bool    { return s.anonymous.Load() }

func (s *SettingsProvider) SetPracticeMode(v bool) { s.practice.Store(v) }
func (s *SettingsProvider) SetAnonymous(v bool)    { s.anonymous.Store(v) }

func NewSettingsProvider(conf *structures.Config) *SettingsProvider {
	s := &SettingsProvider{}
	s.practice.Store(conf.Leaderboard.PracticeMode)
	s.anonymous.Store(conf.Leaderboard.Anonymous)
	return s
}

var _ interfaces.SettingsProviderInterface = (*SettingsProvider)(nil)
