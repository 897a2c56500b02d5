package config

import "time"

// Bot carries every knob the game loop and the solving stack consume.
type Bot struct {
	NoProgressLimit     int
	ScrollEnabled       bool
	ScrollCoverage      float64
	FlagFirst           bool
	UseAdvancedGuessing bool
	SafeThreshold       float64
	PriorDensity        float64
	MaxMovesPerCycle    int
	MoveDelay           time.Duration
	ScrollDistance      int
}

// NewBot reads the bot configuration from the environment, falling back
// to the defaults the original bot shipped with.
func NewBot() (*Bot, error) {
	return &Bot{
		NoProgressLimit:     envInt("SWEEPER_NO_PROGRESS_LIMIT", 5),
		ScrollEnabled:       envBool("SWEEPER_SCROLL_ENABLED", true),
		ScrollCoverage:      envFloat("SWEEPER_SCROLL_COVERAGE", 0.7),
		FlagFirst:           envBool("SWEEPER_FLAG_FIRST", true),
		UseAdvancedGuessing: envBool("SWEEPER_USE_ADVANCED_PROBABILITY", true),
		SafeThreshold:       envFloat("SWEEPER_SAFE_THRESHOLD", 0.8),
		PriorDensity:        envFloat("SWEEPER_PRIOR_DENSITY", 0.15),
		MaxMovesPerCycle:    envInt("SWEEPER_MAX_MOVES_PER_CYCLE", 1),
		MoveDelay:           time.Duration(envInt("SWEEPER_MOVE_DELAY_MS", 300)) * time.Millisecond,
		ScrollDistance:      envInt("SWEEPER_SCROLL_DISTANCE", 600),
	}, nil
}

// MaxRisk converts the safe-probability threshold into the highest mine
// probability a guess may carry (default 0.8 safe -> 0.2 risk).
func (b Bot) MaxRisk() float64 {
	return 1 - b.SafeThreshold
}
