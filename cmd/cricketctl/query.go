package main

import (
	"strings"

	"cricket-query/internal/matchquery"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a player name to the best known player",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.queryService(cmd.Context(), true)
			if err != nil {
				return err
			}
			res, err := svc.ResolvePlayer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find historical matches for a natural-language query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.queryService(cmd.Context(), true)
			if err != nil {
				return err
			}
			results, err := svc.SearchMatches(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", matchquery.DefaultTopK, "maximum number of matches to return")
	return cmd
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>...",
		Short: "Choose the answering tools for one or more queries",
		Long:  "Each argument is classified as a separate query. Requires LLM_API_KEY.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.queryService(cmd.Context(), false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return printJSON(cmd.OutOrStdout(), svc.ClassifyQuery(cmd.Context(), args[0]))
			}
			return printJSON(cmd.OutOrStdout(), svc.ClassifyQueries(cmd.Context(), args))
		},
	}
}
