package leaderboard

import (
	"errors"
	"fmt"
	"runboard/internal/leaderboard/interfaces"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/storage"
	storageInterfaces "runboard/internal/storage/interfaces"
	"strings"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrProofLocked      = errors.New("proof of run is locked")
	ErrProofEmpty       = errors.New("proof of run url is empty")
)

const snapshotKeyPrefix = "run_summary_"

func SnapshotKey(category models.RunCategory) string {
	return snapshotKeyPrefix + category.Key()
}

// SnapshotStore keeps one run summary per category, written when that
// category gets a new best bounty.
type SnapshotStore struct {
	blobs   storageInterfaces.BlobStoreInterface
	codec   *storage.Codec
	source  interfaces.RunSourceInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewSnapshotStore(blobs storageInterfaces.BlobStoreInterface, codec *storage.Codec, source interfaces.RunSourceInterface,
	logger providers.Logger, metrics providers.MetricsProviderInterface) *SnapshotStore {
	return &SnapshotStore{
		blobs:   blobs,
		codec:   codec,
		source:  source,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// SaveSnapshot reads the live run through the source and overwrites the
// category's snapshot.
func (s *SnapshotStore) SaveSnapshot(category models.RunCategory, bounty int64) (models.RunSummarySnapshot, error) {
	snap := s.source.CaptureRunSummary()
	snap.SchemaVersion = models.RunSummarySchemaVersion
	snap.LeaderboardType = models.LeaderboardTypeBounty
	snap.Category = category
	snap.SavedAtUtc = s.now().UTC()
	snap.Bounty = bounty
	snap.ProofOfRunUrl = ""
	snap.ProofOfRunLocked = false

	if err := s.write(category, &snap); err != nil {
		return models.RunSummarySnapshot{}, err
	}
	s.metrics.IncSnapshotsSaved()
	s.logger.Infof(providers.TypeLeaderboard, "Saved run summary %s for %s (bounty %d)", snap.RunID, category.Key(), bounty)
	return snap, nil
}

func (s *SnapshotStore) write(category models.RunCategory, snap *models.RunSummarySnapshot) error {
	blob, err := s.codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}
	if err := s.blobs.Save(SnapshotKey(category), blob); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Run summary %s not saved: %v", category.Key(), err)
		return fmt.Errorf("save run summary: %w", err)
	}
	return nil
}

func (s *SnapshotStore) HasSnapshot(category models.RunCategory) bool {
	return s.blobs.Exists(SnapshotKey(category))
}

// Load returns ErrSnapshotNotFound for a missing or unreadable blob. Older
// schemas are upgraded; ratings they predate read as models.MissingRating.
func (s *SnapshotStore) Load(category models.RunCategory) (*models.RunSummarySnapshot, error) {
	blob, ok, err := s.blobs.Load(SnapshotKey(category))
	if err != nil {
		return nil, fmt.Errorf("load run summary: %w", err)
	}
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	raw, version, err := s.codec.Open(blob)
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "Run summary %s corrupt: %v", category.Key(), err)
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, err)
	}
	if version != models.RunSummarySchemaVersion {
		if raw, err = models.UpgradeRunSummary(raw, version); err != nil {
			s.logger.Warnf(providers.TypeStorage, "Run summary %s not upgraded: %v", category.Key(), err)
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, err)
		}
	}
	snap := &models.RunSummarySnapshot{}
	if err := s.codec.Unmarshal(raw, snap); err != nil {
		s.logger.Warnf(providers.TypeStorage, "Run summary %s corrupt: %v", category.Key(), err)
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, err)
	}
	return snap, nil
}

// EditProofOfRunURL is allowed only while the proof is unlocked.
func (s *SnapshotStore) EditProofOfRunURL(category models.RunCategory, url string) error {
	snap, err := s.Load(category)
	if err != nil {
		return err
	}
	if snap.ProofOfRunLocked {
		return ErrProofLocked
	}
	snap.ProofOfRunUrl = strings.TrimSpace(url)
	return s.write(category, snap)
}

// ConfirmProofOfRun locks a non-empty proof url. Confirming twice is a no-op.
func (s *SnapshotStore) ConfirmProofOfRun(category models.RunCategory) error {
	snap, err := s.Load(category)
	if err != nil {
		return err
	}
	if snap.ProofOfRunLocked {
		return nil
	}
	if snap.ProofOfRunUrl == "" {
		return ErrProofEmpty
	}
	snap.ProofOfRunLocked = true
	s.logger.Infof(providers.TypeLeaderboard, "Proof of run locked for %s", category.Key())
	return s.write(category, snap)
}

func (s *SnapshotStore) Delete(category models.RunCategory) error {
	return s.blobs.Delete(SnapshotKey(category))
}
