// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/docread"
	"github.com/pdiddy/case-analyzer/internal/render"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one case and print the report",
	Long: `Analyze runs one analysis cycle from the terminal, either on a case document
(--file) or on a case number and court (--case, --court), and prints the
report as styled text, YAML or JSON.`,
	Example: `  case-analyzer analyze --file judgment.txt
  case-analyzer analyze --case 741/2102/2025 --court casablanca --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		caseNum, _ := cmd.Flags().GetString("case")
		court, _ := cmd.Flags().GetString("court")
		primary, _ := cmd.Flags().GetBool("primary")
		format, _ := cmd.Flags().GetString("format")

		if (file == "") == (caseNum == "") {
			return errors.New("exactly one of --file or --case is required")
		}
		if !slices.Contains(render.Formats, format) {
			return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(render.Formats, ", "))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		provider, err := analysis.NewProvider(ctx, cfg.AI)
		if err != nil {
			return fmt.Errorf("configuring provider: %w", err)
		}
		ctrl := controller.New(&analysis.Analyzer{
			Provider: provider,
			Logger:   logger,
			Metrics:  telemetry.NewMetrics(),
		}, logger)

		if file != "" {
			err = ctrl.SubmitDocument(ctx, fileLoader(file, cfg.Server.MaxUploadBytes))
		} else {
			form := caseform.ParseCaseNumber(caseNum, court)
			form.IncludePrimary = primary
			err = ctrl.SubmitManual(ctx, form)
		}
		if err != nil {
			return err
		}

		v := ctrl.View()
		return render.Write(cmd.OutOrStdout(), format, &types.AnalysisResult{
			DocumentData:   v.DocumentData,
			OnlineData:     v.OnlineData,
			AnalysisReport: v.AnalysisReport,
		})
	},
}

// fileLoader reads and decodes path the same way an upload is handled.
func fileLoader(path string, maxBytes int64) controller.Loader {
	return func(context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return docread.Decode(filepath.Base(path), data, maxBytes)
	}
}

func init() {
	analyzeCmd.Flags().String("file", "", "case document to analyze (txt, pdf, doc, docx)")
	analyzeCmd.Flags().String("case", "", "case number as N1/N2/N3")
	analyzeCmd.Flags().String("court", types.CourtCasablanca.Slug(), "court slug or Arabic name (see \"courts\")")
	analyzeCmd.Flags().Bool("primary", false, "also search the first-instance courts")
	analyzeCmd.Flags().String("format", render.FormatText, "output format: text, yaml or json")

	rootCmd.AddCommand(analyzeCmd)
}
