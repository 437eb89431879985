package repository

import (
	"math"
	"sync"
	"time"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/patrickmn/go-cache"
)

// ProgressRepository records per-draft generation progress.
type ProgressRepository interface {
	Init(draftID string, total int, step string)
	Update(draftID string, completed, total int, step string)
	Complete(draftID, step string)
	Fail(draftID, message string)
	Get(draftID string) (*entity.Progress, bool)
	Snapshot(draftID string) *entity.Progress
}

var _ ProgressRepository = &ProgressMemory{}

// RunningPercentCap is the highest percent reported before a draft completes.
const RunningPercentCap = 95

// ProgressMemory keeps progress records in process memory. Records expire
// ttl after their last write; a ttl <= 0 keeps them for the process lifetime.
type ProgressMemory struct {
	mu    sync.Mutex
	items *cache.Cache
	now   func() time.Time
}

func NewProgressMemory(ttl time.Duration) *ProgressMemory {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, ttl/2
	}
	return &ProgressMemory{
		items: cache.New(expiration, cleanup),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Init starts a fresh running record, replacing any earlier attempt.
func (s *ProgressMemory) Init(draftID string, total int, step string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(entity.Progress{
		DraftID:       draftID,
		Status:        entity.ProgressStatusRunning,
		Percent:       Percent(0, total),
		CurrentStep:   step,
		TotalSections: total,
		UpdatedAt:     s.now(),
	})
}

// Update records completed sections. A negative total keeps the recorded
// total and an empty step keeps the recorded step.
func (s *ProgressMemory) Update(draftID string, completed, total int, step string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(draftID)
	if !ok {
		p = entity.Progress{
			DraftID: draftID,
			Status:  entity.ProgressStatusRunning,
		}
	}

	if total >= 0 {
		p.TotalSections = total
	}
	p.CompletedSections = max(0, completed)
	p.Percent = min(Percent(p.CompletedSections, p.TotalSections), RunningPercentCap)
	if step != "" {
		p.CurrentStep = step
	}
	p.Status = entity.ProgressStatusRunning
	p.UpdatedAt = s.now()

	s.put(p)
}

// Complete marks the draft finished at 100%. An empty step keeps the recorded step.
func (s *ProgressMemory) Complete(draftID, step string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(draftID)
	if !ok {
		p = entity.Progress{DraftID: draftID}
	}

	p.Status = entity.ProgressStatusCompleted
	p.Percent = 100
	if step != "" {
		p.CurrentStep = step
	}
	p.Error = nil
	p.UpdatedAt = s.now()

	s.put(p)
}

// Fail marks the draft failed. Counters and step recorded so far are kept.
func (s *ProgressMemory) Fail(draftID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(draftID)
	if !ok {
		p = entity.Progress{DraftID: draftID}
	}

	p.Status = entity.ProgressStatusFailed
	p.Error = &message
	p.UpdatedAt = s.now()

	s.put(p)
}

// Get returns a copy of the record, or false when none exists.
func (s *ProgressMemory) Get(draftID string) (*entity.Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.get(draftID)
	if !ok {
		return nil, false
	}
	if p.Error != nil {
		msg := *p.Error
		p.Error = &msg
	}
	return &p, true
}

// Snapshot is Get with an idle record for unknown drafts.
func (s *ProgressMemory) Snapshot(draftID string) *entity.Progress {
	if p, ok := s.Get(draftID); ok {
		return p
	}
	return entity.IdleProgress(draftID)
}

func (s *ProgressMemory) get(draftID string) (entity.Progress, bool) {
	v, ok := s.items.Get(draftID)
	if !ok {
		return entity.Progress{}, false
	}
	return v.(entity.Progress), true
}

func (s *ProgressMemory) put(p entity.Progress) {
	s.items.Set(p.DraftID, p, cache.DefaultExpiration)
}

// Percent is round(100*completed/total) clamped to [0, 100]; halves round to even.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.RoundToEven(100 * float64(completed) / float64(total)))
	return min(max(p, 0), 100)
}
