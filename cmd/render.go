package cmd

import (
	"io"
	"log/slog"

	"github.com/k1LoW/nearcaptcha"
	"github.com/spf13/cobra"
)

var (
	renderOutput string
	renderSeed   uint64
)

var renderCmd = &cobra.Command{
	Use:   "render [TEXT]",
	Short: "render arbitrary text as a captcha",
	Long:  `render arbitrary text as a captcha without looking up any store.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if renderOutput != "" {
			cfg.Output = renderOutput
		}
		opts := []nearcaptcha.Option{
			nearcaptcha.WithConfig(cfg),
			nearcaptcha.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		}
		if renderSeed != 0 {
			opts = append(opts, nearcaptcha.WithSeed(renderSeed))
		}
		c, err := nearcaptcha.New(opts...)
		if err != nil {
			return err
		}
		img, err := c.Render(args[0])
		if err != nil {
			return err
		}
		if err := img.Save(cfg.Output); err != nil {
			return err
		}
		cmd.Println(cfg.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output image path")
	renderCmd.Flags().Uint64VarP(&renderSeed, "seed", "", 0, "random seed for reproducible output (0 means random)")
}
