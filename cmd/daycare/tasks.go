package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/brightbeginnings/daycare/internal/food"
	"github.com/brightbeginnings/daycare/internal/jobs"
	"github.com/brightbeginnings/daycare/internal/storage"
)

func newSeedCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty collections with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.Default()
			kv, stores, err := openStores(g.cfg, logger)
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := stores.Seed(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Seed complete")
			return nil
		},
	}
}

func newResetCmd(g *globals) *cobra.Command {
	var yes, reseed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every daycare collection from storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete data without --yes")
			}
			logger := slog.Default()
			kv, stores, err := openStores(g.cfg, logger)
			if err != nil {
				return err
			}
			defer kv.Close()

			removed, err := storage.DeleteNamespace(cmd.Context(), kv)
			if err != nil {
				return err
			}
			logger.Info("Storage reset", "collections", len(removed))
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d collection(s)\n", len(removed))

			if reseed {
				return stores.Seed(cmd.Context())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all data")
	cmd.Flags().BoolVar(&reseed, "seed", false, "Seed demo data after the reset")
	return cmd
}

func newAlertsCmd(g *globals) *cobra.Command {
	var notify bool
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Print current inventory alerts",
		Long:  "Prints expired, expiring and low-stock inventory. With --notify the digest is also sent to staff notifications, as the scheduler does.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.Default()
			kv, stores, err := openStores(g.cfg, logger)
			if err != nil {
				return err
			}
			defer kv.Close()

			var report food.Report
			if notify {
				report, err = jobs.NewDigest(stores.Food, stores.Employees, nil, logger).Run(cmd.Context())
			} else {
				report, err = stores.Food.Alerts(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s := report.Summary
			fmt.Fprintf(out, "%d alert(s): %d expired, %d expiring soon, %d low stock\n", s.Total, s.Expired, s.ExpiringSoon, s.LowStock)
			for _, a := range report.Alerts {
				fmt.Fprintf(out, "  %-14s %s: %s\n", a.Kind, a.ItemName, a.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "Also send the digest to staff notifications")
	return cmd
}
