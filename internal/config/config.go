package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Solr
		Tasks
		BibSync
		ItemSync
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Solr names the index server and the two cores exports write to.
	Solr struct {
		URL      string
		BibCore  string
		ItemCore string
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	// BibSync schedules recurring last-export runs of the compound
	// bib export.
	BibSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}

	// ItemSync schedules recurring last-export runs of the item
	// export.
	ItemSync struct {
		Enabled  bool
		Schedule string // Cron format: "30 * * * *" = hourly at :30
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Solr defaults
	v.SetDefault("solr_url", DefaultSolrURL)
	v.SetDefault("solr_bib_core", "bibs")
	v.SetDefault("solr_item_core", "items")

	// Scheduled export defaults
	v.SetDefault("bib_sync_enabled", false)
	v.SetDefault("bib_sync_schedule", "0 */6 * * *") // Every 6 hours
	v.SetDefault("item_sync_enabled", false)
	v.SetDefault("item_sync_schedule", "30 * * * *") // Hourly at :30

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "2h")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Solr: Solr{
			URL:      v.GetString("SOLR_URL"),
			BibCore:  v.GetString("SOLR_BIB_CORE"),
			ItemCore: v.GetString("SOLR_ITEM_CORE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		BibSync: BibSync{
			Enabled:  v.GetBool("BIB_SYNC_ENABLED"),
			Schedule: v.GetString("BIB_SYNC_SCHEDULE"),
		},
		ItemSync: ItemSync{
			Enabled:  v.GetBool("ITEM_SYNC_ENABLED"),
			Schedule: v.GetString("ITEM_SYNC_SCHEDULE"),
		},
	}
}
