package main

import (
	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV files into the database",
	}
	cmd.AddCommand(newImportMatchesCmd(opts), newImportPlayersCmd(opts))
	return cmd
}

func newImportMatchesCmd(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Import test.csv, odi.csv, t20i.csv and ipl.csv from a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if dir == "" {
				dir = a.cfg.DataDir
			}
			counts, err := a.importService().ImportMatches(cmd.Context(), dir)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the match tables (defaults to DATA_DIR)")
	return cmd
}

func newImportPlayersCmd(opts *rootOptions) *cobra.Command {
	var playersPath, battingPath, bowlingPath string

	cmd := &cobra.Command{
		Use:   "players",
		Short: "Import players and their batting and bowling innings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			got, err := a.importService().ImportPlayers(cmd.Context(), playersPath, battingPath, bowlingPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), got)
		},
	}

	cmd.Flags().StringVar(&playersPath, "players", "", "players CSV (player_id,name[,full_name,country])")
	cmd.Flags().StringVar(&battingPath, "batting", "", "batting innings CSV (player_id,runs[,format,match_url])")
	cmd.Flags().StringVar(&bowlingPath, "bowling", "", "bowling innings CSV (player_id,wickets[,format,match_url])")
	_ = cmd.MarkFlagRequired("players")
	return cmd
}
