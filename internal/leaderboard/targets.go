package leaderboard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/structures"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const (
	BoardBounty   = "bounty"
	BoardSpeedrun = "speedrun"
)

var partySpeedrunMultiplier = [...]float64{1.0, 1.06, 1.12}

type targetRow struct {
	Board      string      `json:"board"`
	Difficulty string      `json:"difficulty"`
	Party      string      `json:"party"`
	Stage      interface{} `json:"stage"`
	Target     interface{} `json:"target"`
}

// StatTargetTable holds the 10th place tuning values. It is read-only once
// loaded and safe for concurrent readers.
type StatTargetTable struct {
	bounty   map[string]int64
	speedrun map[string]float64
}

func NewStatTargetTable() *StatTargetTable {
	return &StatTargetTable{bounty: make(map[string]int64), speedrun: make(map[string]float64)}
}

// LoadStatTargetTable reads the JSON table and falls back to the CSV file when
// the table yields no rows. Both failing leaves an empty table, which means
// formula targets everywhere.
func LoadStatTargetTable(conf *structures.Config, logger providers.Logger) *StatTargetTable {
	t := NewStatTargetTable()
	if path := conf.Leaderboard.TargetTablePath; path != "" {
		n, err := t.loadJSON(path, logger)
		if err != nil {
			logger.Warnf(providers.TypeLeaderboard, "Target table %s not loaded: %v", path, err)
		} else if n > 0 {
			logger.Infof(providers.TypeLeaderboard, "Loaded %d targets from %s", n, path)
			return t
		}
	}
	if path := conf.Leaderboard.TargetCsvPath; path != "" {
		n, err := t.loadCSV(path, logger)
		if err != nil {
			logger.Warnf(providers.TypeLeaderboard, "Target csv %s not loaded: %v", path, err)
		} else if n > 0 {
			logger.Infof(providers.TypeLeaderboard, "Loaded %d targets from %s", n, path)
			return t
		}
	}
	logger.Infof(providers.TypeLeaderboard, "No target data imported, using formula targets")
	return t
}

func (t *StatTargetTable) loadJSON(path string, logger providers.Logger) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var rows []targetRow
	if err := json.Unmarshal(b, &rows); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	n := 0
	for i, r := range rows {
		if t.addRow(r, logger, fmt.Sprintf("%s row %d", path, i)) {
			n++
		}
	}
	return n, nil
}

func (t *StatTargetTable) loadCSV(path string, logger providers.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"board", "difficulty", "party", "stage", "target"} {
		if _, ok := cols[want]; !ok {
			return 0, fmt.Errorf("missing column %q", want)
		}
	}
	cell := func(rec []string, name string) string {
		if i := cols[name]; i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	n := 0
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Debugf(providers.TypeLeaderboard, "Skipping %s line %d: %v", path, line, err)
			continue
		}
		row := targetRow{
			Board:      cell(rec, "board"),
			Difficulty: cell(rec, "difficulty"),
			Party:      cell(rec, "party"),
			Stage:      cell(rec, "stage"),
			Target:     cell(rec, "target"),
		}
		if t.addRow(row, logger, fmt.Sprintf("%s line %d", path, line)) {
			n++
		}
	}
	return n, nil
}

func (t *StatTargetTable) addRow(r targetRow, logger providers.Logger, where string) bool {
	category, err := models.NewRunCategory(r.Difficulty, r.Party)
	if err != nil {
		logger.Debugf(providers.TypeLeaderboard, "Skipping %s: %v", where, err)
		return false
	}
	target, err := cast.ToFloat64E(r.Target)
	if err != nil || !(target > 0) {
		logger.Debugf(providers.TypeLeaderboard, "Skipping %s: bad target %v", where, r.Target)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(r.Board)) {
	case BoardBounty:
		t.bounty[category.Key()] = int64(target)
	case BoardSpeedrun:
		stage, err := cast.ToIntE(r.Stage)
		if err != nil || stage < models.MinStage || stage > models.MaxStage {
			logger.Debugf(providers.TypeLeaderboard, "Skipping %s: bad stage %v", where, r.Stage)
			return false
		}
		t.speedrun[category.StageKey(stage)] = target
	default:
		logger.Debugf(providers.TypeLeaderboard, "Skipping %s: unknown board %q", where, r.Board)
		return false
	}
	return true
}

func (t *StatTargetTable) Len() int { return len(t.bounty) + len(t.speedrun) }

// BountyTarget10 returns the imported value, or the tuning formula
// 600 + 400*difficulty + 150*party.
func (t *StatTargetTable) BountyTarget10(category models.RunCategory) int64 {
	if v, ok := t.bounty[category.Key()]; ok {
		return v
	}
	return FormulaBountyTarget10(category)
}

// SpeedRunTarget10 returns the imported value, or
// (35 + 12*stage + 6*difficulty) * partyMultiplier.
func (t *StatTargetTable) SpeedRunTarget10(category models.RunCategory, stage int) float64 {
	stage = models.ClampStage(stage)
	if v, ok := t.speedrun[category.StageKey(stage)]; ok {
		return v
	}
	return FormulaSpeedRunTarget10(category, stage)
}

func FormulaBountyTarget10(category models.RunCategory) int64 {
	return int64(600 + 400*category.Difficulty.Index() + 150*category.PartySize.Index())
}

func FormulaSpeedRunTarget10(category models.RunCategory, stage int) float64 {
	mult := 1.0
	if p := category.PartySize.Index(); p >= 0 && p < len(partySpeedrunMultiplier) {
		mult = partySpeedrunMultiplier[p]
	}
	return float64(35+12*stage+6*category.Difficulty.Index()) * mult
}
