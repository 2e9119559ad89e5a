package scheduler

import (
	"context"

	"github.com/creatorscook/insight-core/internal/config"
	"github.com/creatorscook/insight-core/internal/models"
	"github.com/creatorscook/insight-core/internal/pipeline"
	"github.com/creatorscook/insight-core/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service periodically drains the pending queue. Failed products are not
// retried automatically; they only re-enter the queue when a user resets
// them to pending.
type Service struct {
	config   *config.Config
	pipeline *pipeline.Service
	store    storage.Store
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, pipelineService *pipeline.Service, store storage.Store) *Service {
	return &Service{
		config:   cfg,
		pipeline: pipelineService,
		store:    store,
		cron:     cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled pending-queue sweep
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.config.RetrySchedule, func() {
		logrus.Info("Starting scheduled pending-product sweep")
		if err := s.sweepPending(); err != nil {
			logrus.Errorf("Pending-product sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with sweep schedule %q", s.config.RetrySchedule)
	return nil
}

func (s *Service) sweepPending() error {
	ctx := context.Background()

	products, err := s.store.ListProductsByStatus(ctx, models.StatusPending)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		logrus.Debug("No pending products to analyze")
		return nil
	}

	logrus.Infof("Sweeping %d pending products", len(products))
	for _, product := range products {
		if err := s.pipeline.Analyze(ctx, product.UserID, product.ID); err != nil {
			logrus.Errorf("Sweep analysis failed for product %s: %v", product.ID, err)
		}
	}
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
