package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"dubboard/internal/fileutil"
)

func newOutputsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List translated videos in the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(cfg.Paths.OutputDir)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("read output directory: %w", err)
			}

			type fileRow struct {
				name     string
				size     int64
				modified string
			}
			var files []fileRow
			for _, entry := range entries {
				if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				info, infoErr := entry.Info()
				if infoErr != nil {
					continue
				}
				files = append(files, fileRow{
					name:     entry.Name(),
					size:     info.Size(),
					modified: info.ModTime().Local().Format("2006-01-02 15:04"),
				})
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No translated videos in %s yet.\n", cfg.Paths.OutputDir)
				return nil
			}
			sort.Slice(files, func(i, j int) bool { return files[i].modified > files[j].modified })

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				rows = append(rows, []string{file.name, fileutil.FormatSize(file.size), file.modified})
			}
			printTable(out, []string{"File", "Size", "Modified"}, rows, 2)
			return nil
		},
	}
}
