package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dubboard/internal/history"
)

type jobRow struct {
	JobID      string    `json:"job_id"`
	URL        string    `json:"url"`
	TargetLang string    `json:"target_lang"`
	Status     string    `json:"status"`
	Stage      string    `json:"stage"`
	OutputPath string    `json:"output_path,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	Segments   int       `json:"segments"`
	Translated int       `json:"translated"`
	StartedAt  time.Time `json:"started_at"`
	Seconds    float64   `json:"duration_seconds"`
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent translation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Pipeline.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				entries := make([]jobRow, 0, len(runs))
				for _, run := range runs {
					entries = append(entries, jobRow{
						JobID:      run.JobID,
						URL:        run.URL,
						TargetLang: run.TargetLang,
						Status:     run.Status,
						Stage:      run.Stage,
						OutputPath: run.OutputPath,
						ErrorKind:  run.ErrorKind,
						Error:      run.Error,
						Segments:   run.Segments,
						Translated: run.Translated,
						StartedAt:  run.StartedAt,
						Seconds:    run.Duration.Seconds(),
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No translation runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.OutputPath
				if run.Status == history.StatusFailed {
					detail = fmt.Sprintf("%s: %s", run.Stage, run.ErrorKind)
				}
				rows = append(rows, []string{
					run.JobID,
					run.TargetLang,
					run.Status,
					fmt.Sprintf("%d/%d", run.Translated, run.Segments),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Duration.Round(time.Second).String(),
					detail,
				})
			}
			printTable(out,
				[]string{"Job", "Lang", "Status", "Translated", "Started", "Took", "Output / Error"},
				rows, 4, 6)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON instead of a table")
	return cmd
}
