package main

import (
	"context"
	"fmt"
	"os"

	"certificate-service-go/internal/config"
	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/pkg/gotenberg"
	"certificate-service-go/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	gotenbergURL string
	assetsDir    string
	renderScale  float64
)

var rootCmd = &cobra.Command{
	Use:   "certgen",
	Short: "Certificate template and rendering tool",
	Long: `certgen creates and normalizes certificate templates and renders them
to PDF, PNG or JPEG through Gotenberg, filling placeholders from YAML or JSON records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		return logger.Init(level, "console")
	},
}

// Execute запускает корневую команду и возвращает код выхода
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&gotenbergURL, "gotenberg", "", "Gotenberg URL (default from GOTENBERG_API_URL)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", "", "Directory with images referenced by name (logo.png, sign.png)")
	rootCmd.PersistentFlags().Float64Var(&renderScale, "scale", 0, "Raster scale factor (default from RENDER_SCALE)")
}

// newRenderService собирает сервис отрисовки из окружения и флагов
func newRenderService() (*render.ServiceImpl, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if gotenbergURL != "" {
		cfg.Gotenberg.URL = gotenbergURL
	}
	if assetsDir != "" {
		cfg.Render.AssetsDir = assetsDir
	}
	if renderScale > 0 {
		cfg.Render.Scale = renderScale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	assets, err := render.LoadAssets(cfg.Render.AssetsDir)
	if err != nil {
		return nil, err
	}
	client := gotenberg.NewClientWithRetryAndCircuitBreaker(cfg.Gotenberg, cfg.CircuitBreaker)
	return render.NewService(client, render.Options{
		Scale:  cfg.Render.Scale,
		Assets: assets,
	}), nil
}
