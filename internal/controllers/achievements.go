package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/achievements"
	"github.com/amaumene/trackarr/internal/preferences"
	"github.com/amaumene/trackarr/internal/stats"
)

// AchievementController runs the derive → evaluate → diff pipeline and owns
// the notification side effect
type AchievementController struct {
	statsCtrl *StatsController
	engine    *achievements.Engine
	prefStore *preferences.Store
	logger    *logrus.Logger

	// Serializes evaluation passes so a racing double-evaluation cannot
	// surface the same achievement twice before MarkSeen lands
	mu sync.Mutex
}

// NewAchievementController creates a new achievement controller
func NewAchievementController(statsCtrl *StatsController, engine *achievements.Engine, prefStore *preferences.Store, logger *logrus.Logger) *AchievementController {
	return &AchievementController{
		statsCtrl: statsCtrl,
		engine:    engine,
		prefStore: prefStore,
		logger:    logger,
	}
}

// EvaluationResult is the outcome of one evaluation pass
type EvaluationResult struct {
	Snapshot      stats.Snapshot            `json:"snapshot"`
	Unlocked      []achievements.Definition `json:"unlocked"`
	NewlyUnlocked *achievements.Definition  `json:"newly_unlocked,omitempty"`
}

// RunEvaluation executes a full evaluation pass: build the snapshot, evaluate
// the catalog, surface at most one newly-unlocked achievement and mark it
// seen synchronously.
func (c *AchievementController) RunEvaluation(ctx context.Context, now time.Time) (*EvaluationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := c.statsCtrl.BuildSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	unlocked := c.engine.EvaluateUnlocks(snapshot)

	result := &EvaluationResult{
		Snapshot: snapshot,
		Unlocked: unlocked,
	}

	newly, ok := achievements.FindNewlyUnlocked(unlocked, c.prefStore.SeenSet())
	if !ok {
		return result, nil
	}

	c.logger.WithFields(logrus.Fields{
		"achievement": newly.ID,
		"title":       newly.Title,
		"rarity":      newly.Rarity,
	}).Info("Achievement unlocked")

	// Mark seen before returning so the next pass cannot re-surface it
	if err := c.prefStore.MarkSeen(newly.ID); err != nil {
		c.logger.WithError(err).Error("Failed to persist seen achievement")
	}

	result.NewlyUnlocked = &newly
	return result, nil
}

// Engine exposes the catalog engine for display handlers
func (c *AchievementController) Engine() *achievements.Engine {
	return c.engine
}
