package models

import (
	"fmt"
	"time"

	"github.com/tidwall/sjson"
)

// Run summary snapshot schema history:
//
//	1: category, stage, bounty, hero/companion identity
//	2: + stat values, equipped idols, inventory, event log
//	3: + luck ratings, proof of run
//	4: + skill rating
const RunSummarySchemaVersion = 4

// MissingRating marks a rating the snapshot's writer did not record.
const MissingRating = -1.0

const StatCount = 8

const LeaderboardTypeBounty = "bounty"

type RunSummarySnapshot struct {
	SchemaVersion     int                `json:"schemaVersion"`
	LeaderboardType   string             `json:"leaderboardType"`
	Category          RunCategory        `json:"category"`
	RunID             string             `json:"runId"`
	SavedAtUtc        time.Time          `json:"savedAtUtc"`
	StageReached      int                `json:"stageReached"`
	Bounty            int64              `json:"bounty"`
	HeroID            string             `json:"heroId"`
	HeroBodyType      string             `json:"heroBodyType"`
	CompanionID       string             `json:"companionId"`
	CompanionBodyType string             `json:"companionBodyType"`
	StatValues        [StatCount]float64 `json:"statValues"`
	LuckRating        float64            `json:"luckRating"`
	LuckQuantity      float64            `json:"luckQuantity"`
	LuckQuality       float64            `json:"luckQuality"`
	SkillRating       float64            `json:"skillRating"`
	ProofOfRunUrl     string             `json:"proofOfRunUrl"`
	ProofOfRunLocked  bool               `json:"proofOfRunLocked"`
	EquippedIdols     []string           `json:"equippedIdols"`
	Inventory         []string           `json:"inventory"`
	EventLog          []string           `json:"eventLog"`
}

// UpgradeRunSummary rewrites a raw snapshot of the given version to the current
// schema, replacing untrusted fields with sentinels.
func UpgradeRunSummary(raw []byte, version int) ([]byte, error) {
	if version > RunSummarySchemaVersion {
		return nil, fmt.Errorf("run summary schema %d is newer than supported %d", version, RunSummarySchemaVersion)
	}
	type patch struct {
		path  string
		value interface{}
	}
	var patches []patch
	if version < 2 {
		patches = append(patches,
			patch{"statValues", [StatCount]float64{}},
			patch{"equippedIdols", []string{}},
			patch{"inventory", []string{}},
			patch{"eventLog", []string{}},
		)
	}
	if version < 3 {
		patches = append(patches,
			patch{"luckRating", MissingRating},
			patch{"luckQuantity", MissingRating},
			patch{"luckQuality", MissingRating},
			patch{"proofOfRunUrl", ""},
			patch{"proofOfRunLocked", false},
		)
	}
	if version < 4 {
		patches = append(patches, patch{"skillRating", MissingRating})
	}
	patches = append(patches, patch{"schemaVersion", RunSummarySchemaVersion})

	out := raw
	for _, p := range patches {
		var err error
		if out, err = sjson.SetBytes(out, p.path, p.value); err != nil {
			return nil, fmt.Errorf("upgrade %s: %w", p.path, err)
		}
	}
	return out, nil
}
