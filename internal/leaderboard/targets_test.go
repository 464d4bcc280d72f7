package leaderboard

import (
	"os"
	"path/filepath"
	"runboard/internal/models"
	"runboard/internal/structures"
	"runboard/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func targetConfig(jsonPath, csvPath string) *structures.Config {
	return &structures.Config{Leaderboard: structures.LeaderboardConfig{TargetTablePath: jsonPath, TargetCsvPath: csvPath}}
}

func TestLoadStatTargetTable_JSON(t *testing.T) {
	path := writeFile(t, "targets.json", `[
		{"board":"bounty","difficulty":"hard","party":"duo","target":2500},
		{"board":"speedrun","difficulty":"easy","party":"solo","stage":3,"target":"61.5"},
		{"board":"speedrun","difficulty":"easy","party":"solo","stage":0,"target":10},
		{"board":"bounty","difficulty":"impossible","party":"solo","target":10},
		{"board":"bounty","difficulty":"easy","party":"solo","target":-4}
	]`)
	logger := &testutil.MockLogger{}
	table := LoadStatTargetTable(targetConfig(path, ""), logger)

	assert.Equal(t, 2, table.Len())
	hardDuo := models.RunCategory{Difficulty: models.DifficultyHard, PartySize: models.PartyDuo}
	assert.Equal(t, int64(2500), table.BountyTarget10(hardDuo))
	assert.Equal(t, 61.5, table.SpeedRunTarget10(easySolo, 3))
	assert.Equal(t, int64(600), table.BountyTarget10(easySolo), "skipped row falls back to the formula")
	assert.Equal(t, 3, logger.Count("debug", "Skipping"))
}

func TestLoadStatTargetTable_CSVFallback(t *testing.T) {
	csvPath := writeFile(t, "targets.csv",
		"board,difficulty,party,stage,target\n"+
			"bounty,normal,trio,,1900\n"+
			"speedrun,final,solo,66,999\n"+
			"speedrun,final,solo,67,999\n"+
			"speedrun,final,solo,abc,999\n"+
			"bounty,normal,solo,,zero\n")
	logger := &testutil.MockLogger{}
	table := LoadStatTargetTable(targetConfig(filepath.Join(t.TempDir(), "missing.json"), csvPath), logger)

	assert.Equal(t, 2, table.Len())
	normalTrio := models.RunCategory{Difficulty: models.DifficultyNormal, PartySize: models.PartyTrio}
	finalSolo := models.RunCategory{Difficulty: models.DifficultyFinal, PartySize: models.PartySolo}
	assert.Equal(t, int64(1900), table.BountyTarget10(normalTrio))
	assert.Equal(t, 999.0, table.SpeedRunTarget10(finalSolo, 66))
	assert.Equal(t, 1, logger.Count("warn", "missing.json"))
}

func TestLoadStatTargetTable_NothingLoaded(t *testing.T) {
	logger := &testutil.MockLogger{}
	table := LoadStatTargetTable(targetConfig("", writeFile(t, "bad.csv", "a,b\n1,2\n")), logger)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 1, logger.Count("info", "formula targets"))
	assert.Equal(t, int64(600), table.BountyTarget10(easySolo))
}
