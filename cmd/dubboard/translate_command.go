package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dubboard/internal/fileutil"
	"dubboard/internal/language"
	"dubboard/internal/pipeline"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var targetLang string
	var name string

	cmd := &cobra.Command{
		Use:   "translate URL",
		Short: "Download a YouTube video and dub it into another language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			normalized := language.Normalize(targetLang)
			if !language.IsSupported(normalized) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Unsupported language %q. Available targets:\n", targetLang)
				printLanguages(cmd.ErrOrStderr())
				return fmt.Errorf("unsupported target language %q", targetLang)
			}

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			started := time.Now()
			result, err := p.Run(cmd.Context(), pipeline.Request{
				URL:            args[0],
				TargetLanguage: normalized,
				Name:           name,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Translated video ready: %s\n", result.OutputPath)
			if info, statErr := os.Stat(result.OutputPath); statErr == nil {
				fmt.Fprintf(out, "File size: %s\n", fileutil.FormatSize(info.Size()))
			}
			fmt.Fprintf(out, "Detected language: %s\n", language.Name(result.DetectedLanguage))
			fmt.Fprintf(out, "Segments: %d (%d translated)\n", result.Segments, result.Translated)
			fmt.Fprintf(out, "Processing time: %s\n", time.Since(started).Round(time.Second))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "language", "l", "es", "Target language code or name (see `dubboard languages`)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Job name used for the output file prefix")
	return cmd
}
