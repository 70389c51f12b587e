package main

import (
	"context"

	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [template]",
	Short: "Render on every change of the template or records file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(renderFormat)
		if err != nil {
			return err
		}
		svc, err := newRenderService()
		if err != nil {
			return err
		}
		job := renderJob{
			Template: args[0],
			Data:     renderData,
			Format:   format,
			Out:      renderOut,
			Stdout:   cmd.OutOrStdout(),
		}
		return watchAndRender(cmd.Context(), job, svc)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addRenderFlags(watchCmd)
}

// watchAndRender отрисовывает сразу и затем после каждого изменения
// файлов. Ошибки отрисовки логируются, наблюдение продолжается.
func watchAndRender(ctx context.Context, job renderJob, svc render.Service) error {
	paths := []string{job.Template}
	if job.Data != "" {
		paths = append(paths, job.Data)
	}
	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		return err
	}

	rerender := func(changed []string) {
		if _, err := job.Run(ctx, svc); err != nil {
			logger.Error("render failed", zap.Strings("changed", changed), zap.Error(err))
		}
	}
	rerender(nil)

	logger.Info("watching for changes", zap.Strings("files", paths))
	return w.Run(ctx, rerender)
}
