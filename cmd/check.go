package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/labstaff/app"
	"github.com/kilianp07/labstaff/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the input files without solving",
	RunE:  check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	in, err := svc.LoadInputs()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d TAs, %d schedulable, %d slots\n",
		len(in.TAs), len(in.Matrix.Scheduled(in.TAs)), len(in.Slots))
	for _, w := range in.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
