package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlibdev/catalog-export/internal/config"
	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
	"github.com/openlibdev/catalog-export/internal/export"
	http_controllers "github.com/openlibdev/catalog-export/internal/http"
	"github.com/openlibdev/catalog-export/internal/scheduler"
	"github.com/openlibdev/catalog-export/internal/solr"
	"github.com/openlibdev/catalog-export/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop the scheduler and task queue before the HTTP listener so
	// running exports get their chance to finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting catalog-export v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Index sinks, one client per core
	bibSink := solr.NewClient(cfg.Solr.URL, cfg.Solr.BibCore)
	itemSink := solr.NewClient(cfg.Solr.URL, cfg.Solr.ItemCore)
	log.Printf("Solr sinks: %s cores %s, %s", cfg.Solr.URL, cfg.Solr.BibCore, cfg.Solr.ItemCore)

	registry := export.DefaultRegistry(db.DB, bibSink, itemSink)
	statusRepo := status.NewRepository(db.DB)
	runner := export.NewRunner(statusRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewRunExportQueue(runner, registry))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// One trigger path shared by the HTTP API and the scheduler:
	// enqueue on the task queue when it is running, otherwise run the
	// job in-process.
	trigger := func(ctx context.Context, exportType string, filter export.FilterSpec, failOnZero bool) (string, error) {
		strategy, err := registry.Get(exportType)
		if err != nil {
			return "", err
		}
		job := export.NewJob(exportType, filter)
		job.FailOnZero = failOnZero

		if taskClient != nil {
			task := tasks.RunExportTask{
				JobID:      job.ID,
				ExportType: exportType,
				Filter:     filter,
				FailOnZero: failOnZero,
			}
			if _, err := taskClient.Add(task).Save(); err != nil {
				return "", fmt.Errorf("enqueue export: %w", err)
			}
			return job.ID, nil
		}

		go func() {
			if _, err := runner.Run(context.Background(), job, strategy); err != nil {
				log.Printf("Export %s (%s): %v", job.ID, exportType, err)
			}
		}()
		return job.ID, nil
	}

	// Scheduled exports
	var entries []scheduler.Entry
	if cfg.BibSync.Enabled {
		entries = append(entries, scheduler.Entry{
			ExportType: export.TypeBibsAndAttachedToSolr,
			Schedule:   cfg.BibSync.Schedule,
		})
	}
	if cfg.ItemSync.Enabled {
		entries = append(entries, scheduler.Entry{
			ExportType: export.TypeItemsToSolr,
			Schedule:   cfg.ItemSync.Schedule,
		})
	}
	exportScheduler := scheduler.NewExportSyncScheduler(scheduler.TriggerFunc(trigger), entries)
	if err := exportScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start export scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:   db,
		StatusRepo: statusRepo,
		Registry:   registry,
		Trigger:    trigger,
		TaskClient: taskClient,
		Version:    version,
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		exportScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
