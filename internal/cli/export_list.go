package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/openlibdev/catalog-export/internal/config"
	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
)

// ExportListCommand prints recent export jobs.
type ExportListCommand struct {
	DatabasePath string
	Limit        int
}

// NewExportListCommand creates a new ExportListCommand
func NewExportListCommand() *ExportListCommand {
	return &ExportListCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-list", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.IntVar(&cmd.Limit, "limit", 20, "How many jobs to show, newest first")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List recent export jobs with their status and error counts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the list command
func (cmd *ExportListCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	instances, err := status.NewRepository(db.DB).List(cmd.Limit)
	if err != nil {
		return fmt.Errorf("list exports: %w", err)
	}
	if len(instances) == 0 {
		fmt.Println("No export jobs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-26s  %-18s  %-16s  %8s  %6s\n",
		"JOB", "TYPE", "FILTER", "STATUS", "WARNINGS", "ERRORS")
	for _, inst := range instances {
		fmt.Printf("%-36s  %-26s  %-18s  %-16s  %8d  %6d\n",
			inst.JobID, inst.ExportType, inst.ExportFilter, inst.Status, inst.Warnings, inst.Errors)
	}
	return nil
}
