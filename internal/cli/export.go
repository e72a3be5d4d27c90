package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
)

func newExportCmd() *cobra.Command {
	var (
		file    string
		archive bool
		sort    string
	)
	filters := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Download a collection as CSV",
		Long: `Download locations, officials, games, users or assignments as CSV.

List filters apply. With --archive the server also stores a copy in the
export archive and reports its key.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := model.ParseEntityKind(args[0])
			if !ok {
				return fmt.Errorf("unknown kind %q", args[0])
			}

			params := url.Values{}
			for name, v := range filters {
				if *v != "" {
					params.Set(name, *v)
				}
			}
			if sort != "" {
				params.Set(query.ParamSort, sort)
			}
			if archive {
				params.Set("archive", "true")
			}

			dl, err := client.Download("/api/v1/exports/"+kind.Plural(), params)
			if err != nil {
				return err
			}

			if file == "" {
				file = dl.Filename
			}
			if file == "-" {
				_, err = os.Stdout.Write(dl.Data)
				return err
			}
			if err := os.WriteFile(file, dl.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			out := NewOutput(cfg.Output)
			if dl.ArchiveKey != "" {
				out.PrintMessage(fmt.Sprintf("Wrote %s (archived as %s)", file, dl.ArchiveKey))
			} else {
				out.PrintMessage("Wrote " + file)
			}
			return nil
		},
	}

	for _, name := range []string{
		query.ParamSearch, query.ParamSport, query.ParamLeague, query.ParamStatus,
		query.ParamDateFrom, query.ParamDateTo, query.ParamExperienceLevel,
		query.ParamRole, query.ParamGameID, query.ParamOfficialID, query.ParamActive,
	} {
		filters[name] = cmd.Flags().String(flagName(name), "", filterUsage(name))
	}
	cmd.Flags().StringVar(&sort, "sort", "", "Sort field, prefix with - for descending")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file, - for stdout (default: server file name)")
	cmd.Flags().BoolVar(&archive, "archive", false, "Also store the export in the archive")

	return cmd
}
