package cmd

import (
	"fmt"

	"github.com/k1LoW/nearcaptcha"
	"github.com/k1LoW/nearcaptcha/config"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	output   string
	openFile bool
	seed     uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "generate a captcha from the nearest store",
	Long:  `generate a captcha from the address of the nearest store and print the answer.`,
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&output, "output", "o", "", "output image path (default: config output or captcha.png)")
	cmd.Flags().BoolVarP(&openFile, "open", "", false, "open the generated image")
	cmd.Flags().Uint64VarP(&seed, "seed", "", 0, "random seed for reproducible output (0 means random)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, stop, err := newLogger()
	if err != nil {
		return err
	}
	defer stop()
	opts := []nearcaptcha.Option{
		nearcaptcha.WithConfig(cfg),
		nearcaptcha.WithLogger(logger),
	}
	if seed != 0 {
		opts = append(opts, nearcaptcha.WithSeed(seed))
	}
	c, err := nearcaptcha.New(opts...)
	if err != nil {
		return err
	}
	res, err := c.Generate(cmd.Context())
	if err != nil {
		return err
	}
	if err := res.Report(cmd.OutOrStdout()); err != nil {
		return err
	}
	if openFile {
		return browser.OpenFile(res.Path)
	}
	return nil
}

// loadConfig loads the profile config and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, err
	}
	if output != "" {
		cfg.Output = output
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
