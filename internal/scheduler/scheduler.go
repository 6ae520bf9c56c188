package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"IPOSentinel/internal/analysis"
	"IPOSentinel/internal/model"
	"IPOSentinel/internal/notifier"
	"IPOSentinel/internal/recorder"
)

// Trigger types recorded with each summary run.
const (
	TriggerScheduled = "SCHEDULED"
	TriggerManual    = "MANUAL"
)

// Sender delivers a report message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// TrackerFactory builds a fresh Tracker per run so every run fetches current data.
type TrackerFactory func() *analysis.Tracker

// Scheduler manages the periodic summary task.
type Scheduler struct {
	Cron       *cron.Cron
	NewTracker TrackerFactory
	Source     string
	Notifier   Sender
	Recorder   recorder.Recorder
	Ctx        context.Context
	Log        *zap.Logger
}

// NewScheduler creates a new Scheduler. A nil notifier disables reports.
func NewScheduler(ctx context.Context, factory TrackerFactory, source string, sender Sender, rec recorder.Recorder, log *zap.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		NewTracker: factory,
		Source:     source,
		Notifier:   sender,
		Recorder:   rec,
		Ctx:        ctx,
		Log:        log,
	}
}

// RegisterAll registers the summary task.
func (s *Scheduler) RegisterAll(summaryCron string) error {
	if _, err := s.Cron.AddFunc(summaryCron, s.summaryTask); err != nil {
		return fmt.Errorf("register summary task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunSummaryNow executes the scheduled task immediately (for RUN_ON_START).
func (s *Scheduler) RunSummaryNow() {
	s.summaryTask()
}

// RunSummary computes a fresh summary and records it.
func (s *Scheduler) RunSummary(ctx context.Context, trigger string) (*model.SummaryTable, error) {
	runID := uuid.NewString()
	log := s.Log.With(zap.String("run_id", runID), zap.String("trigger", trigger))
	log.Info("running summary task")

	table, err := s.NewTracker().Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute summary: %w", err)
	}

	if err := s.Recorder.RecordSummary(&recorder.SummarySnapshot{
		RunID:   runID,
		Source:  s.Source,
		Trigger: trigger,
		Table:   table,
	}); err != nil {
		log.Error("record summary", zap.Error(err))
	}
	log.Info("summary task done", zap.Int("rows", table.Len()))
	return table, nil
}

func (s *Scheduler) summaryTask() {
	table, err := s.RunSummary(s.Ctx, TriggerScheduled)
	if err != nil {
		s.Log.Error("scheduled summary", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ 新股表现计算失败: %v", err))
		return
	}
	s.trySend(notifier.FormatSummary(table))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/summary", "新股表现":
		table, err := s.RunSummary(ctx, TriggerManual)
		if err != nil {
			return fmt.Sprintf("❌ 新股表现计算失败: %v", err)
		}
		return notifier.FormatSummary(table)
	case "/last", "最近记录":
		snap, err := s.Recorder.LatestSummary()
		if err != nil {
			return fmt.Sprintf("❌ 读取记录失败: %v", err)
		}
		if snap == nil {
			return "暂无记录"
		}
		return notifier.FormatSummary(snap.Table)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
