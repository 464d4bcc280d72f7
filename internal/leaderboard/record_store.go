package leaderboard

import (
	"fmt"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/storage"
	"runboard/internal/storage/interfaces"
)

const LocalLeaderboardKey = "local_leaderboard"

// RecordStore is the per-profile best-record collection. The blob is read on
// first use and written after every accepted change.
type RecordStore struct {
	blobs  interfaces.BlobStoreInterface
	codec  *storage.Codec
	logger providers.Logger
	data   *models.LocalLeaderboard
}

func NewRecordStore(blobs interfaces.BlobStoreInterface, codec *storage.Codec, logger providers.Logger) *RecordStore {
	return &RecordStore{blobs: blobs, codec: codec, logger: logger}
}

func (s *RecordStore) load() *models.LocalLeaderboard {
	if s.data != nil {
		return s.data
	}
	s.data = s.read()
	return s.data
}

func (s *RecordStore) read() *models.LocalLeaderboard {
	blob, ok, err := s.blobs.Load(LocalLeaderboardKey)
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "Local leaderboard unreadable, starting fresh: %v", err)
		return models.NewLocalLeaderboard()
	}
	if !ok {
		return models.NewLocalLeaderboard()
	}
	raw, version, err := s.codec.Open(blob)
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "Local leaderboard corrupt, starting fresh: %v", err)
		return models.NewLocalLeaderboard()
	}
	if version != models.LocalLeaderboardSchemaVersion {
		if raw, err = models.UpgradeLocalLeaderboard(raw, version); err != nil {
			s.logger.Warnf(providers.TypeStorage, "Local leaderboard not upgraded, starting fresh: %v", err)
			return models.NewLocalLeaderboard()
		}
		s.logger.Infof(providers.TypeStorage, "Local leaderboard upgraded from schema %d", version)
	}
	data := models.NewLocalLeaderboard()
	if err := s.codec.Unmarshal(raw, data); err != nil {
		s.logger.Warnf(providers.TypeStorage, "Local leaderboard corrupt, starting fresh: %v", err)
		return models.NewLocalLeaderboard()
	}
	data.Normalize()
	return data
}

func (s *RecordStore) save() error {
	blob, err := s.codec.Encode(s.load())
	if err != nil {
		return fmt.Errorf("encode local leaderboard: %w", err)
	}
	if err := s.blobs.Save(LocalLeaderboardKey, blob); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Local leaderboard not saved: %v", err)
		return fmt.Errorf("save local leaderboard: %w", err)
	}
	return nil
}

func (s *RecordStore) bountyIndex(category models.RunCategory) int {
	for i, r := range s.load().BountyRecords {
		if r.Category == category {
			return i
		}
	}
	return -1
}

func (s *RecordStore) speedrunIndex(category models.RunCategory, stage int) int {
	for i, r := range s.load().SpeedrunStageRecords {
		if r.Category == category && r.Stage == stage {
			return i
		}
	}
	return -1
}

func (s *RecordStore) BountyRecord(category models.RunCategory) (models.BountyRecord, bool) {
	if i := s.bountyIndex(category); i >= 0 {
		return s.data.BountyRecords[i], true
	}
	return models.BountyRecord{}, false
}

func (s *RecordStore) SpeedrunRecord(category models.RunCategory, stage int) (models.SpeedrunStageRecord, bool) {
	if i := s.speedrunIndex(category, stage); i >= 0 {
		return s.data.SpeedrunStageRecords[i], true
	}
	return models.SpeedrunStageRecord{}, false
}

// UpsertBounty writes only when bounty is strictly greater than the stored
// best. A missing record counts as a best of zero.
func (s *RecordStore) UpsertBounty(category models.RunCategory, bounty int64, anonymous bool) (improved bool, err error) {
	i := s.bountyIndex(category)
	if i < 0 {
		if bounty <= 0 {
			return false, nil
		}
		s.data.BountyRecords = append(s.data.BountyRecords, models.BountyRecord{Category: category})
		i = len(s.data.BountyRecords) - 1
	} else if bounty <= s.data.BountyRecords[i].BestBounty {
		return false, nil
	}
	s.data.BountyRecords[i].BestBounty = bounty
	s.data.BountyRecords[i].SubmittedAnonymous = anonymous
	return true, s.save()
}

// UpsertSpeedrun writes when the stored time is unset or seconds is strictly lower.
func (s *RecordStore) UpsertSpeedrun(category models.RunCategory, stage int, seconds float64, anonymous bool) (improved bool, err error) {
	if !(seconds > 0) {
		return false, nil
	}
	i := s.speedrunIndex(category, stage)
	if i < 0 {
		s.data.SpeedrunStageRecords = append(s.data.SpeedrunStageRecords, models.SpeedrunStageRecord{Category: category, Stage: stage})
		i = len(s.data.SpeedrunStageRecords) - 1
	} else if r := &s.data.SpeedrunStageRecords[i]; r.IsSet() && seconds >= r.BestSeconds {
		return false, nil
	}
	s.data.SpeedrunStageRecords[i].BestSeconds = seconds
	s.data.SpeedrunStageRecords[i].SubmittedAnonymous = anonymous
	return true, s.save()
}

func (s *RecordStore) BountyRecords() []models.BountyRecord {
	return append([]models.BountyRecord(nil), s.load().BountyRecords...)
}

func (s *RecordStore) SpeedrunRecords() []models.SpeedrunStageRecord {
	return append([]models.SpeedrunStageRecord(nil), s.load().SpeedrunStageRecords...)
}

func (s *RecordStore) AccountRestriction() models.AccountRestrictionRecord {
	return s.load().AccountRestriction
}

// ApplyRestriction records a restriction decided elsewhere and reopens the
// appeal. RestrictionNone clears the record.
func (s *RecordStore) ApplyRestriction(kind models.RestrictionKind, reason, linkedSlot string) error {
	data := s.load()
	if kind == models.RestrictionNone {
		data.AccountRestriction = models.AccountRestrictionRecord{}
	} else {
		data.AccountRestriction = models.AccountRestrictionRecord{
			Kind:                 kind,
			Reason:               reason,
			LinkedRunSummarySlot: linkedSlot,
			AppealStatus:         models.AppealNotSubmitted,
		}
	}
	s.logger.Infof(providers.TypeLeaderboard, "Account restriction set to %s", kind)
	return s.save()
}

// SubmitAppeal moves NotSubmitted to UnderReview. Any other state, or an
// account without a restriction, is left alone.
func (s *RecordStore) SubmitAppeal(message, evidenceURL string) (bool, error) {
	r := &s.load().AccountRestriction
	if !r.Restricted() || r.AppealStatus != models.AppealNotSubmitted {
		return false, nil
	}
	r.AppealStatus = models.AppealUnderReview
	r.LastAppealMessage = message
	r.LastEvidenceUrl = evidenceURL
	s.logger.Infof(providers.TypeLeaderboard, "Appeal submitted for %s restriction", r.Kind)
	return true, s.save()
}
