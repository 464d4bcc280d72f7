package models

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyNightmare
	DifficultyFinal
)

var difficultyNames = []string{"easy", "normal", "hard", "nightmare", "final"}

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyNightmare, DifficultyFinal}

func (d Difficulty) Index() int { return int(d) }

func (d Difficulty) Valid() bool { return d >= DifficultyEasy && d <= DifficultyFinal }

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

type PartySize int

const (
	PartySolo PartySize = iota
	PartyDuo
	PartyTrio
)

var partyNames = []string{"solo", "duo", "trio"}

var PartySizes = []PartySize{PartySolo, PartyDuo, PartyTrio}

func (p PartySize) Index() int { return int(p) }

func (p PartySize) Valid() bool { return p >= PartySolo && p <= PartyTrio }

func (p PartySize) String() string {
	if !p.Valid() {
		return fmt.Sprintf("party(%d)", int(p))
	}
	return partyNames[p]
}

func ParsePartySize(s string) (PartySize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range partyNames {
		if name == s {
			return PartySize(i), nil
		}
	}
	return 0, fmt.Errorf("unknown party size %q", s)
}

const (
	MinStage = 1
	MaxStage = 66
)

func ClampStage(stage int) int {
	return min(max(stage, MinStage), MaxStage)
}

// RunCategory is the composite key for every record series.
type RunCategory struct {
	Difficulty Difficulty `json:"difficulty"`
	PartySize  PartySize  `json:"party"`
}

func NewRunCategory(difficulty, party string) (RunCategory, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return RunCategory{}, err
	}
	p, err := ParsePartySize(party)
	if err != nil {
		return RunCategory{}, err
	}
	return RunCategory{Difficulty: d, PartySize: p}, nil
}

func (c RunCategory) Valid() bool {
	return c.Difficulty.Valid() && c.PartySize.Valid()
}

// Key is the bounty key, e.g. "hard_duo".
func (c RunCategory) Key() string {
	return c.Difficulty.String() + "_" + c.PartySize.String()
}

// StageKey is the speedrun key, e.g. "hard_duo_s12".
func (c RunCategory) StageKey(stage int) string {
	return fmt.Sprintf("%s_s%d", c.Key(), stage)
}

func (c RunCategory) String() string { return c.Key() }
