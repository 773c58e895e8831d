package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/controllers"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron            *cron.Cron
	statsCtrl       *controllers.StatsController
	achievementCtrl *controllers.AchievementController
	evalInterval    int
	logger          *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(statsCtrl *controllers.StatsController, achievementCtrl *controllers.AchievementController, evalIntervalMinutes int, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(),
		statsCtrl:       statsCtrl,
		achievementCtrl: achievementCtrl,
		evalInterval:    evalIntervalMinutes,
		logger:          logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Periodic achievement evaluation pass
	_, err := s.cron.AddFunc(fmt.Sprintf("*/%d * * * *", s.evalInterval), func() {
		s.runEvaluation()
	})
	if err != nil {
		return fmt.Errorf("failed to add evaluation job: %w", err)
	}

	// Every 6 hours: check tracked shows for new seasons
	_, err = s.cron.AddFunc("0 */6 * * *", func() {
		s.runSeasonCheck()
	})
	if err != nil {
		return fmt.Errorf("failed to add season check job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial evaluation immediately so unlocks earned offline
	// surface without waiting for the first tick
	go s.runEvaluation()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runEvaluation executes one achievement evaluation pass
func (s *Scheduler) runEvaluation() {
	s.logger.Debug("Running scheduled evaluation pass")
	ctx := context.Background()

	result, err := s.achievementCtrl.RunEvaluation(ctx, time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Evaluation pass failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"library_count":  result.Snapshot.LibraryCount,
		"unlocked_count": len(result.Unlocked),
	}).Debug("Evaluation pass completed")
}

// runSeasonCheck executes the season-change detection job
func (s *Scheduler) runSeasonCheck() {
	s.logger.Info("Running scheduled season check")
	ctx := context.Background()

	changes, err := s.statsCtrl.DetectSeasonChanges(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Season check failed")
		return
	}

	for _, change := range changes {
		s.logger.WithFields(logrus.Fields{
			"item_id":        change.ItemID,
			"title":          change.Title,
			"seasons_at_add": change.SeasonsAtAdd,
			"seasons_now":    change.SeasonsNow,
		}).Info("Show has new seasons")
	}
}
