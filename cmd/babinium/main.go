// Command babinium extracts a table from an image and prints or saves it.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"babinium/internal/config"
	"babinium/internal/csvexport"
	"babinium/internal/domain"
	"babinium/internal/imageenc"
	"babinium/internal/logging"
	"babinium/internal/parser"
	_ "babinium/internal/parser/gemini"
	"babinium/internal/service"
	"babinium/internal/wizard"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	format     string
	outputPath string
	withBOM    bool
	locale     string
	model      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "babinium",
		Short: "Turn pictures of tables into structured data",
		Long: `babinium sends an image of a table to a vision model and returns
the rows as a terminal table, CSV, XLSX or JSON.`,
		SilenceUsage: true,
	}

	extractCmd := &cobra.Command{
		Use:   "extract [image]",
		Short: "Extract the table in an image",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().StringVarP(&format, "format", "f", string(domain.ExportFormatTable), "Output format: table, csv, xlsx, json")
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout; xlsx defaults to a dated file)")
	extractCmd.Flags().BoolVar(&withBOM, "bom", false, "Prepend a UTF-8 BOM to CSV output")
	extractCmd.Flags().StringVar(&locale, "locale", "", "Prompt language (overrides BABINIUM_PARSER_LOCALE)")
	extractCmd.Flags().StringVar(&model, "model", "", "Model name (overrides BABINIUM_PARSER_DEFAULT_MODEL)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "babinium", version)
		},
	}

	rootCmd.AddCommand(extractCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	outFormat := domain.ExportFormat(strings.ToLower(format))
	if !domain.ValidExportFormats[outFormat] {
		return fmt.Errorf("invalid format: %s (must be table, csv, xlsx, or json)", format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if locale != "" {
		cfg.Parser.Locale = locale
	}
	if model != "" {
		cfg.Parser.DefaultModel = model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)

	client, err := parser.NewVisionClient(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize vision provider: %w", err)
	}
	extractionSvc := service.NewExtractionService(
		client,
		parser.NewRequestBuilder(cfg.Parser.Locale),
		parser.NewResponseParser(parser.WithStrictRows(cfg.Parser.StrictRows), parser.WithLogger(logger)),
		logger,
	)

	file, f, err := imageenc.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	session := wizard.NewSession(extractionSvc)
	if err := session.Select(file); err != nil {
		return err
	}
	result, err := session.Submit(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s", domain.UserMessage(err))
	}
	writeIssues(cmd.ErrOrStderr(), result.Issues)

	dest := outputPath
	if dest == "" && outFormat == domain.ExportFormatXLSX {
		dest = csvexport.BuildFilename(csvexport.DefaultBaseName, "xlsx")
	}
	if dest == "" {
		return writeResult(cmd.OutOrStdout(), outFormat, result.Rows, withBOM)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeResult(out, outFormat, result.Rows, withBOM); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", result.RowCount, dest)
	return nil
}
