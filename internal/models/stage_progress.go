package models

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// StageProgress tracks which stages a run cleared and which of those clears
// beat the stored speedrun record. Not safe for concurrent use; the session
// owns it under its own lock.
type StageProgress struct {
	cleared *roaring.Bitmap
	bests   *roaring.Bitmap
}

func NewStageProgress() *StageProgress {
	return &StageProgress{
		cleared: roaring.New(),
		bests:   roaring.New(),
	}
}

// MarkCleared records a clear. Stages outside [MinStage, MaxStage] and
// repeated clears are ignored and report false.
func (p *StageProgress) MarkCleared(stage int, newBest bool) bool {
	if stage < MinStage || stage > MaxStage {
		return false
	}
	if !p.cleared.CheckedAdd(uint32(stage)) {
		return false
	}
	if newBest {
		p.bests.Add(uint32(stage))
	}
	return true
}

func (p *StageProgress) Cleared(stage int) bool {
	return stage >= MinStage && stage <= MaxStage && p.cleared.Contains(uint32(stage))
}

func (p *StageProgress) ClearedCount() int {
	return int(p.cleared.GetCardinality())
}

// ClearedStages returns cleared stages in ascending order.
func (p *StageProgress) ClearedStages() []int {
	return toInts(p.cleared)
}

// NewBestStages returns the stages whose clear set a new record.
func (p *StageProgress) NewBestStages() []int {
	return toInts(p.bests)
}

func (p *StageProgress) Reset() {
	p.cleared.Clear()
	p.bests.Clear()
}

func toInts(b *roaring.Bitmap) []int {
	out := make([]int, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}
