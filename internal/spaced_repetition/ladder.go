package spaced_repetition

import "time"

// Rating is the user's subjective grade after a review round.
type Rating string

const (
	RatingHard Rating = "HARD"
	RatingGood Rating = "GOOD"
	RatingEasy Rating = "EASY"
)

// IsValidRating reports whether s names a known rating.
func IsValidRating(s string) bool {
	switch Rating(s) {
	case RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// Schedule is the ladder's output: a stage plus the absolute times derived
// from it.
type Schedule struct {
	Stage           int
	IntervalMinutes int
	NextReviewAt    time.Time
	LastReviewAt    time.Time
}

// Ladder maps a stage and a rating to the next stage and wait interval.
// Pure computation, no side effects.
type Ladder struct {
	// Интервалы повторения по ступеням, в минутах
	StageIntervals []int
	// Interval used when a prompt times out unanswered. Deliberately not
	// the stage-0 ladder value: a skipped word should resurface soon
	// without counting as "just learned".
	SkipIntervalMinutes int
	// EASY at stages 0-2 jumps straight here instead of climbing rung by rung
	EasyJumpStage int
}

// NewLadder returns a ladder with the default progression:
// 5m, 25m, 2h, 1d, 3d, 7d, 16d, 35d.
func NewLadder() *Ladder {
	return &Ladder{
		StageIntervals:      []int{5, 25, 120, 1440, 4320, 10080, 23040, 50400},
		SkipIntervalMinutes: 60,
		EasyJumpStage:       4,
	}
}

// MaxStage is the highest stage index of this ladder.
func (l *Ladder) MaxStage() int {
	return len(l.StageIntervals) - 1
}

// IntervalForStage returns the wait interval for a stage, clamping the
// input into [0, MaxStage].
func (l *Ladder) IntervalForStage(stage int) int {
	if stage < 0 {
		stage = 0
	}
	if stage > l.MaxStage() {
		stage = l.MaxStage()
	}
	return l.StageIntervals[stage]
}

// InitialSchedule is the schedule for a freshly added word: stage 0, due
// after the shortest interval.
func (l *Ladder) InitialSchedule(now time.Time) Schedule {
	interval := l.StageIntervals[0]
	return Schedule{
		Stage:           0,
		IntervalMinutes: interval,
		NextReviewAt:    now.Add(time.Duration(interval) * time.Minute),
		LastReviewAt:    now,
	}
}

// NextStage applies a rating to the current stage.
//
// HARD regresses one stage, floored at 0. GOOD advances one stage, capped
// at MaxStage. EASY at stages 0-2 jumps directly to EasyJumpStage so easy
// recall does not have to traverse the slow early climb; above that it
// advances two stages, capped at MaxStage.
func (l *Ladder) NextStage(currentStage int, rating Rating) int {
	if currentStage < 0 {
		currentStage = 0
	}
	if currentStage > l.MaxStage() {
		currentStage = l.MaxStage()
	}

	var target int
	switch rating {
	case RatingHard:
		target = currentStage - 1
		if target < 0 {
			target = 0
		}
	case RatingEasy:
		if currentStage <= l.EasyJumpStage-2 {
			target = l.EasyJumpStage
		} else {
			target = currentStage + 2
		}
	default: // GOOD
		target = currentStage + 1
	}

	if target > l.MaxStage() {
		target = l.MaxStage()
	}
	return target
}

// NextByRating computes the full schedule after a graded review.
func (l *Ladder) NextByRating(currentStage int, rating Rating, now time.Time) Schedule {
	stage := l.NextStage(currentStage, rating)
	interval := l.StageIntervals[stage]
	return Schedule{
		Stage:           stage,
		IntervalMinutes: interval,
		NextReviewAt:    now.Add(time.Duration(interval) * time.Minute),
		LastReviewAt:    now,
	}
}

// ScheduleSkipped resets a timed-out review to stage 0 with the fixed skip
// interval, regardless of its current stage.
func (l *Ladder) ScheduleSkipped(now time.Time) Schedule {
	return Schedule{
		Stage:           0,
		IntervalMinutes: l.SkipIntervalMinutes,
		NextReviewAt:    now.Add(time.Duration(l.SkipIntervalMinutes) * time.Minute),
		LastReviewAt:    now,
	}
}
