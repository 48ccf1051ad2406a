package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/labstaff/app"
	"github.com/kilianp07/labstaff/config"
	"github.com/kilianp07/labstaff/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "labstaff",
	Short: "TA lab staffing scheduler",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: objective %d, %d slots, %d TAs, %d unfilled seats\n",
		res.Status, res.Objective, len(res.Slots), len(res.TAs), res.Shortage)
	return nil
}
