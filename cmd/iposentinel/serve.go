package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"IPOSentinel/internal/notifier"
	"IPOSentinel/internal/scheduler"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled summary job and Telegram commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.log.Sync()
		if err := a.cfg.ValidateNotifier(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}

		rec := a.recorder()
		defer rec.Close()

		tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)

		ctx := cmd.Context()

		factory, source := a.trackerFactory()
		a.log.Info("data source", zap.String("name", source))

		sched := scheduler.NewScheduler(ctx, factory, source, tn, rec, a.log)
		if err := sched.RegisterAll(a.cfg.Schedule.SummaryCron); err != nil {
			return fmt.Errorf("register cron tasks: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.log.Info("IPOSentinel is running, press Ctrl+C to stop")
		serveUntil(sigCtx, sched, tn, os.Getenv("RUN_ON_START") == "true", a.log)
		a.log.Info("shutdown complete")
		return nil
	},
}

// commandPoller delivers chat commands until its context is cancelled.
type commandPoller interface {
	StartPolling(ctx context.Context, handler notifier.CommandHandler)
}

// serveUntil runs command polling and the optional startup summary until ctx
// is done, and returns only after both have finished.
func serveUntil(ctx context.Context, sched *scheduler.Scheduler, poller commandPoller, runOnStart bool, log *zap.Logger) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.StartPolling(ctx, sched.HandleCommand)
	}()
	log.Info("telegram polling started")

	if runOnStart {
		log.Info("RUN_ON_START enabled, executing summary task now")
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.RunSummaryNow()
		}()
	}

	<-ctx.Done()
	log.Info("shutdown signal received, waiting for running tasks")
	wg.Wait()
}
