package cmd

import (
	"fmt"
	"os"

	"github.com/k1LoW/nearcaptcha/config"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [IMAGE_FILE]",
	Short: "open a generated captcha",
	Long:  `open a generated captcha in the default viewer.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load(profile)
			if err != nil {
				return err
			}
			path = cfg.Output
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("captcha not found: %w", err)
		}
		cmd.Println(path)
		return browser.OpenFile(path)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
