package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	newLang       string
	newOut        string
	importOut     string
	shortcodeJSON bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Write the default certificate template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := certificate.DefaultDocument()
		if newLang != "" {
			doc.Settings.Language = certificate.Language(strings.ToUpper(newLang))
			doc.Content = certificate.DefaultContentFor(doc.Settings.Language)
		}
		return writeTemplate(cmd.OutOrStdout(), newOut, doc)
	},
}

var importCmd = &cobra.Command{
	Use:     "import [template]",
	Aliases: []string{"normalize"},
	Short:   "Validate a template file and write it back normalized",
	Long: `Import reads a template file, normalizes its theme (fields that do not
apply to the theme are cleared, defaults are filled in) and validates it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := certificate.Decode(raw)
		if err != nil {
			return err
		}
		if err := certificate.ValidateTheme(doc.Theme); err != nil {
			return err
		}
		if missing := certificate.UnresolvedPlaceholders(doc.Content); len(missing) > 0 {
			logger.Info("template placeholders", zap.Strings("placeholders", missing))
		}
		return writeTemplate(cmd.OutOrStdout(), importOut, doc)
	},
}

var shortcodesCmd = &cobra.Command{
	Use:   "shortcodes",
	Short: "List placeholders understood by the renderer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printShortcodes(cmd.OutOrStdout(), shortcodeJSON)
	},
}

func init() {
	rootCmd.AddCommand(newCmd, importCmd, shortcodesCmd)
	newCmd.Flags().StringVar(&newLang, "lang", "", "Label language: EN or AR (default AR)")
	newCmd.Flags().StringVarP(&newOut, "out", "o", "", "Output file (default stdout)")
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Output file (default stdout)")
	shortcodesCmd.Flags().BoolVar(&shortcodeJSON, "json", false, "Output in JSON format")
}

func writeTemplate(stdout io.Writer, out string, doc certificate.Document) error {
	file, err := certificate.Marshal(doc)
	if err != nil {
		return err
	}
	file = append(file, '\n')
	if out == "" || out == "-" {
		_, err = stdout.Write(file)
		return err
	}
	if err := os.WriteFile(out, file, 0o644); err != nil {
		return err
	}
	logger.Info("template written", zap.String("path", out))
	return nil
}

func printShortcodes(w io.Writer, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(certificate.Shortcodes)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tTOKEN")
	for _, s := range certificate.Shortcodes {
		fmt.Fprintf(tw, "%s\t%s\n", s.Label, s.Token())
	}
	return tw.Flush()
}
