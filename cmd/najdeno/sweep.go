package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/registry"
)

const cfgKeyOlderThan = "older-than"

// sweepCmd is the scheduled collaborator that retires stale reports. It runs
// under a synthetic admin principal because direct status changes are an
// administrative action.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire unclaimed items older than the cutoff",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Duration(cfgKeyOlderThan, 90*24*time.Hour, "age before an unclaimed item expires")
}

func runSweep(cmd *cobra.Command, args []string) error {
	database, err := db.Open(viper.GetString(cfgKeyDB))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	items := &registry.Items{DB: database}
	scheduler := &model.Principal{ID: "system:sweep", Role: model.RoleAdmin}

	n, err := items.ExpireStale(cmd.Context(), scheduler, viper.GetDuration(cfgKeyOlderThan))
	if err != nil {
		return fmt.Errorf("expiring items: %w", err)
	}

	fmt.Printf("Expired %d item(s).\n", n)
	return nil
}
