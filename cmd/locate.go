package cmd

import (
	"encoding/json"

	"github.com/k1LoW/nearcaptcha"
	"github.com/spf13/cobra"
)

var locateJSON bool

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "print the nearest store",
	Long:  `print the address and today's hours of the nearest store.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, stop, err := newLogger()
		if err != nil {
			return err
		}
		defer stop()
		c, err := nearcaptcha.New(
			nearcaptcha.WithConfig(cfg),
			nearcaptcha.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		s, err := c.Locate(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Println()
		if locateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		cmd.Printf("Address: %s\n", s.Address)
		cmd.Printf("Today: %s\n", s.TodayHours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().BoolVarP(&locateJSON, "json", "", false, "print as JSON")
}
