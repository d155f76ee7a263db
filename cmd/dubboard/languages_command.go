package main

import (
	"io"

	"github.com/spf13/cobra"

	"dubboard/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List supported target languages",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			printLanguages(cmd.OutOrStdout())
			return nil
		},
	}
}

func printLanguages(out io.Writer) {
	options := language.SupportedSorted()
	rows := make([][]string, 0, len(options))
	for _, option := range options {
		rows = append(rows, []string{option.Code, option.Name})
	}
	printTable(out, []string{"Code", "Language"}, rows)
}
