package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ciprianb/jenkins-log-archiver/internal/archive"
	"github.com/ciprianb/jenkins-log-archiver/internal/archiver"
	"github.com/ciprianb/jenkins-log-archiver/internal/config"
	"github.com/ciprianb/jenkins-log-archiver/internal/diskfree"
	"github.com/ciprianb/jenkins-log-archiver/internal/lockfile"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
	"github.com/ciprianb/jenkins-log-archiver/internal/mailbox"
	"github.com/ciprianb/jenkins-log-archiver/internal/notify"
	"github.com/ciprianb/jenkins-log-archiver/internal/sysd"
	"github.com/ciprianb/jenkins-log-archiver/internal/watcher"
	"github.com/ciprianb/jenkins-log-archiver/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	once := flag.Bool("once", false, "perform a single archival run and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	logg := logging.New(cfg.Logging)

	runner := buildRunner(cfg, logg)

	if *once {
		outcome, err := runner.Run(ctx)
		if err != nil {
			logg.Error("run failed", "error", err)
		}
		os.Exit(outcome.ExitCode())
	}

	if cfg.Schedule == "" {
		log.Fatalf("schedule is required in daemon mode (or pass --once)")
	}

	// Mailbox coalesces triggers so runs never stack
	mb := mailbox.New[worker.Trigger]()

	w := worker.New(runner, mb, logg)
	go w.Start(ctx)

	// Cron schedule puts triggers into the mailbox
	sched := cron.New()
	var cronMu sync.Mutex
	entryID, err := sched.AddFunc(cfg.Schedule, func() {
		mb.Put(worker.Trigger{Reason: "schedule", At: time.Now()})
	})
	if err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.Schedule, err)
	}
	sched.Start()
	defer sched.Stop()

	reload := func() {
		newCfg, err := config.Load(*configPath)
		if err != nil {
			logg.Error("config reload failed", "error", err)
			return
		}

		runner.UpdateParams(archiver.ParamsFromConfig(newCfg))

		cronMu.Lock()
		if newCfg.Schedule != cfg.Schedule {
			newID, err := sched.AddFunc(newCfg.Schedule, func() {
				mb.Put(worker.Trigger{Reason: "schedule", At: time.Now()})
			})
			if err != nil {
				logg.Error("new schedule rejected, keeping old one", "schedule", newCfg.Schedule, "error", err)
			} else {
				sched.Remove(entryID)
				entryID = newID
				cfg.Schedule = newCfg.Schedule
			}
		}
		cronMu.Unlock()

		logg.Info("config reloaded")
	}

	// Hot reload when the config file changes
	if cfg.ConfigReload.Enabled {
		watch := watcher.New(*configPath, cfg.ConfigReload, logg, reload)
		go func() {
			if err := watch.Start(ctx); err != nil {
				logg.Error("config watcher failed", "error", err)
			}
		}()
	}

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)

		for range sigCh {
			reload()
		}
	}()

	<-ctx.Done()
	log.Println("exit complete")
}

func buildRunner(cfg *config.Config, logg logging.Logger) *archiver.Runner {
	stopper := sysd.Disabled()
	if cfg.Protect.Enabled {
		stopper = sysd.New()
	}

	return archiver.New(
		archiver.ParamsFromConfig(cfg),
		lockfile.New(cfg.Lock.Path),
		diskfree.New(),
		notify.NewMailer(cfg.Notify),
		stopper,
		archive.NewBuilder(nil),
		logg,
	)
}
