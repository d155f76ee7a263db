package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubboard/internal/trade"
)

func newTradeCommand(ctx *commandContext) *cobra.Command {
	tradeCmd := &cobra.Command{
		Use:   "trade",
		Short: "Inspect the Uruguay trade datasets from the terminal",
	}
	tradeCmd.AddCommand(newTradeSummaryCommand(ctx))
	tradeCmd.AddCommand(newTradeProductsCommand(ctx))
	tradeCmd.AddCommand(newTradePartnersCommand(ctx))
	tradeCmd.AddCommand(newTradeComplexityCommand(ctx))
	return tradeCmd
}

func newTradeSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the headline trade metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			summary := trade.NewGenerator(cfg.Dashboard.Seed).All().Summary

			balance := "surplus"
			if summary.BalanceUSDM < 0 {
				balance = "deficit"
			}
			rows := [][]string{
				{"Latest year", fmt.Sprintf("%d", summary.LatestYear)},
				{"Total exports", fmt.Sprintf("$%.0fM", summary.TotalExportsUSDM)},
				{"Top export product", summary.TopProduct},
				{"Top trade partner", summary.TopPartner},
				{"Trade balance", fmt.Sprintf("$%.0fM (%s)", summary.BalanceUSDM, balance)},
			}
			printTable(cmd.OutOrStdout(), []string{"Metric", "Value"}, rows)
			return nil
		},
	}
}

func newTradeProductsCommand(ctx *commandContext) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Show export value and market share per product",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if year < trade.ExportFirstYear || year > trade.ExportLastYear {
				return fmt.Errorf("year must be between %d and %d", trade.ExportFirstYear, trade.ExportLastYear)
			}

			rows := make([][]string, 0)
			for _, row := range trade.NewGenerator(cfg.Dashboard.Seed).Exports() {
				if row.Year != year {
					continue
				}
				rows = append(rows, []string{
					row.Product,
					fmt.Sprintf("%.1f", row.ValueUSDM),
					fmt.Sprintf("%.1f", row.MarketShare),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"Product", "Exports ($M)", "Market share (%)"},
				rows, 2, 3)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", trade.ExportLastYear, "Year to list")
	return cmd
}

func newTradePartnersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "partners",
		Short: "Show exports and imports per trade partner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			partners := trade.NewGenerator(cfg.Dashboard.Seed).Partners()

			rows := make([][]string, 0, len(partners))
			for _, partner := range partners {
				rows = append(rows, []string{
					partner.Country,
					fmt.Sprintf("%.1f", partner.ExportsUSDM),
					fmt.Sprintf("%.1f", partner.ImportsUSDM),
					fmt.Sprintf("%+.1f", partner.BalanceUSDM),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"Country", "Exports ($M)", "Imports ($M)", "Balance ($M)"},
				rows, 2, 3, 4)
			return nil
		},
	}
}

func newTradeComplexityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complexity",
		Short: "Show product complexity and revealed comparative advantage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			data := trade.NewGenerator(cfg.Dashboard.Seed).ComplexityData()
			rows := make([][]string, 0, len(data))
			for _, row := range data {
				rows = append(rows, []string{
					row.Name,
					fmt.Sprintf("%.1f", row.RCA),
					fmt.Sprintf("%.1f", row.Complexity),
					fmt.Sprintf("%.1f", row.Opportunity),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"Product", "RCA", "Complexity", "Opportunity"},
				rows, 2, 3, 4)
			return nil
		},
	}
}
