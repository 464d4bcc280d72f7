package models

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Local leaderboard blob schema history:
//
//	1: bountyRecords only
//	2: + speedrunStageRecords
//	3: + accountRestriction
const LocalLeaderboardSchemaVersion = 3

type LocalLeaderboard struct {
	SchemaVersion        int                      `json:"schemaVersion"`
	BountyRecords        []BountyRecord           `json:"bountyRecords"`
	SpeedrunStageRecords []SpeedrunStageRecord    `json:"speedrunStageRecords"`
	AccountRestriction   AccountRestrictionRecord `json:"accountRestriction"`
}

func NewLocalLeaderboard() *LocalLeaderboard {
	return &LocalLeaderboard{
		SchemaVersion:        LocalLeaderboardSchemaVersion,
		BountyRecords:        make([]BountyRecord, 0),
		SpeedrunStageRecords: make([]SpeedrunStageRecord, 0),
	}
}

// UpgradeLocalLeaderboard rewrites a raw blob of the given version to the
// current schema. Fields a version predates are reset to their defaults even if
// present, since an old writer never produced them.
func UpgradeLocalLeaderboard(raw []byte, version int) ([]byte, error) {
	if version > LocalLeaderboardSchemaVersion {
		return nil, fmt.Errorf("local leaderboard schema %d is newer than supported %d", version, LocalLeaderboardSchemaVersion)
	}
	var err error
	out := raw
	if version < 2 {
		if out, err = sjson.SetBytes(out, "speedrunStageRecords", []SpeedrunStageRecord{}); err != nil {
			return nil, err
		}
	}
	if version < 3 {
		if out, err = sjson.SetBytes(out, "accountRestriction", AccountRestrictionRecord{}); err != nil {
			return nil, err
		}
	}
	return sjson.SetBytes(out, "schemaVersion", LocalLeaderboardSchemaVersion)
}

func (l *LocalLeaderboard) Normalize() {
	if l.BountyRecords == nil {
		l.BountyRecords = make([]BountyRecord, 0)
	}
	if l.SpeedrunStageRecords == nil {
		l.SpeedrunStageRecords = make([]SpeedrunStageRecord, 0)
	}
	l.SchemaVersion = LocalLeaderboardSchemaVersion
}
