package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Dashboard figures and summaries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Show headline counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats report.DashboardStats
			if err := client.Get("/api/v1/reports/dashboard", &stats); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(stats)
			return nil
		},
	})
	cmd.AddCommand(newCountsCmd("by-sport", "Count games per sport", "games-by-sport"))
	cmd.AddCommand(newCountsCmd("by-status", "Count assignments per status", "assignments-by-status"))
	cmd.AddCommand(newCountsCmd("by-experience", "Count active officials per experience level", "officials-by-experience"))
	cmd.AddCommand(newTopCmd("top", "Officials with the most assignments", "top-officials", 10, listOf[report.OfficialRank]))
	cmd.AddCommand(newTopCmd("activity", "Most recent activity log entries", "activity", 20, listOf[model.ActivityLogEntry]))

	return cmd
}

func newCountsCmd(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.List[report.Count]
			if err := client.Get("/api/v1/reports/"+endpoint, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTopCmd(use, short, endpoint string, def int, list func(*Output, string, url.Values) error) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{"n": {strconv.Itoa(n)}}
			return list(NewOutput(cfg.Output), "/api/v1/reports/"+endpoint, params)
		},
	}

	cmd.Flags().IntVar(&n, "n", def, "Number of entries")

	return cmd
}
