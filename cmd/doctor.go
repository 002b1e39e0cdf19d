package cmd

import (
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/nearcaptcha"
	"github.com/k1LoW/nearcaptcha/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "check the environment for nearcaptcha",
	Long:  `check the configuration, the stamp and the remote services used by nearcaptcha.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)

		allOK := true

		// 1. Configuration
		cmd.Print("🔧 Checking configuration file ... ")
		cfg, err := config.Load(profile)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			red.Println("✗ CONFIG ERROR")
			cmd.Printf("   Error loading config: %v\n", err)
			cmd.Println()
			red.Println("⚠️  Setup is incomplete.")
			return nil
		}
		green.Println("✓ OK")

		// 2. Stamp
		cmd.Print("🐱 Checking stamp ... ")
		if _, err := nearcaptcha.LoadStamp(cfg.Captcha.StampPath); err != nil {
			red.Println("✗ DECODE ERROR")
			cmd.Printf("   %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
			if cfg.Captcha.StampPath == "" {
				cmd.Println("   Using embedded stamp")
			} else {
				cmd.Printf("   Stamp file: %s\n", cfg.Captcha.StampPath)
			}
		}

		c, err := nearcaptcha.New(
			nearcaptcha.WithConfig(cfg),
			nearcaptcha.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
		if err != nil {
			return err
		}

		// 3. Remote services
		cmd.Print("🌐 Checking geolocation and store locator ... ")
		s, err := c.Locate(ctx)
		switch {
		case errors.Is(err, nearcaptcha.ErrLocationFailed):
			red.Println("✗ GEOLOCATION FAILED")
			cmd.Printf("   %s: %v\n", cfg.Locator.GeolocationURL, err)
			allOK = false
		case errors.Is(err, nearcaptcha.ErrNoStoreFound):
			yellow.Println("⚠️ NO STORE NEARBY")
			cmd.Printf("   Try a larger locator.radius (current: %d)\n", cfg.Locator.Radius)
			allOK = false
		case err != nil:
			red.Println("✗ STORE LOCATOR FAILED")
			cmd.Printf("   %v\n", err)
			allOK = false
		default:
			green.Println("✓ OK")
			cmd.Printf("   Nearest store: %s\n", s.Address)
		}

		cmd.Println()
		if allOK {
			bold.Printf("🎉 ")
			green.Print("All checks passed! You are ready to use nearcaptcha")
			bold.Println(".")
		} else {
			red.Println("⚠️  Setup is incomplete.")
			cmd.Println("\nPlease fix the issues above to use nearcaptcha properly.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
