// Package scheduler runs the recurring daily digest job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/repository/mongodb"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
	"github.com/mamadbah2/rabbitry/internal/service/bot"
	"github.com/mamadbah2/rabbitry/internal/service/reporting"
)

// Scheduler fans the daily digest out to every subscribed chat.
type Scheduler struct {
	cron    *cron.Cron
	store   sqlite.Store
	reports *reporting.Service
	bot     *bot.Service
	archive mongodb.Repository // optional, may be nil
	logger  *zap.Logger
}

// New builds a scheduler in the given timezone.
func New(timezone string, store sqlite.Store, reports *reporting.Service, botService *bot.Service, archive mongodb.Repository, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", timezone, err)
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(location)),
		store:   store,
		reports: reports,
		bot:     botService,
		archive: archive,
		logger:  logger,
	}, nil
}

// Start registers the digest job and launches the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runDigest); err != nil {
		return fmt.Errorf("register digest job %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		s.logger.Error("daily digest run failed", zap.Error(err))
	}
}

// SendDigest builds today's digest and delivers it to all subscribers,
// archiving each delivery when an archive is configured. A failed send to one
// chat does not stop the fan-out.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	subscribers, err := s.store.Subscribers(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		s.logger.Info("no digest subscribers, skipping run")
		return nil
	}

	body, err := s.reports.DailyDigest(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	today := time.Now().Format(models.DateLayout)
	for _, chatID := range subscribers {
		if err := s.bot.SendText(ctx, chatID, body); err != nil {
			s.logger.Error("digest delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}
		s.archiveDigest(ctx, today, chatID, body)
	}

	s.logger.Info("daily digest sent", zap.Int("subscribers", len(subscribers)))
	return nil
}

func (s *Scheduler) archiveDigest(ctx context.Context, date string, chatID int64, body string) {
	if s.archive == nil {
		return
	}
	digest := models.DigestArchive{
		Date:      date,
		ChatID:    chatID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.archive.SaveDigest(ctx, digest); err != nil {
		s.logger.Warn("digest archive failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
