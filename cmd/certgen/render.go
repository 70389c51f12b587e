package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderData   string
	renderFormat string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render [template]",
	Short: "Render certificates from a template",
	Long: `Render fills the template placeholders from a YAML or JSON records file and
writes one certificate per record. With several records --out is a directory and
files are named after the record ID.`,
	Args: cobra.ExactArgs(1),
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
		_, err = job.Run(cmd.Context(), svc)
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addRenderFlags(renderCmd)
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&renderData, "data", "d", "", "Records file (YAML or JSON): one object or a list")
	cmd.Flags().StringVarP(&renderFormat, "format", "f", "pdf", "Output format: pdf, png, jpeg or json")
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", `Output file, directory for several records, or "-" for stdout`)
}

// renderJob одна команда отрисовки: шаблон, записи и куда писать
type renderJob struct {
	Template string
	Data     string
	Format   render.Format
	Out      string
	Stdout   io.Writer
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Run отрисовывает сертификат для каждой записи и возвращает пути файлов
func (j renderJob) Run(ctx context.Context, svc render.Service) ([]string, error) {
	tmpl, err := os.ReadFile(j.Template)
	if err != nil {
		return nil, err
	}
	records := []certificate.PlaceholderData{{}}
	if j.Data != "" {
		raw, err := os.ReadFile(j.Data)
		if err != nil {
			return nil, err
		}
		if records, err = render.ParseRecords(raw); err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%s has no records", j.Data)
		}
	}

	batch := len(records) > 1
	if batch {
		if j.Out == "-" {
			return nil, fmt.Errorf("cannot write %d certificates to stdout", len(records))
		}
		if j.Out == "" {
			j.Out = "."
		}
		if err := os.MkdirAll(j.Out, 0o755); err != nil {
			return nil, err
		}
	}

	var written []string
	for i, rec := range records {
		art, err := svc.Render(ctx, render.Request{Template: tmpl, Data: rec}, j.Format)
		if err != nil {
			return written, fmt.Errorf("record %d: %w", i+1, err)
		}

		if j.Out == "-" {
			_, err := j.Stdout.Write(art.Data)
			return written, err
		}
		path := j.outputPath(art, rec, i, batch)
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return written, err
		}
		logger.Info("certificate written",
			zap.String("path", path),
			zap.Int("size", len(art.Data)),
			zap.Int("width", art.Width),
			zap.Int("height", art.Height),
		)
		written = append(written, path)
	}
	return written, nil
}

func (j renderJob) outputPath(art *render.Artifact, rec certificate.PlaceholderData, index int, batch bool) string {
	if !batch {
		if j.Out != "" {
			return j.Out
		}
		return art.FileName
	}
	name := unsafeNameChars.ReplaceAllString(rec[certificate.PlaceholderID], "_")
	if name == "" || name == "." || name == ".." {
		name = fmt.Sprintf("certificate-%03d", index+1)
	}
	return filepath.Join(j.Out, name+filepath.Ext(art.FileName))
}
