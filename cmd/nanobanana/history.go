package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"nanobanana/internal/history"
	"nanobanana/pkg/zip"
)

func newHistoryCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past generations",
	}
	cmd.AddCommand(newHistoryListCmd(global), newHistoryExportCmd(global))
	return cmd
}

func newHistoryListCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past generations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer s.Close()

			items := history.LoadOrEmpty(cmd.Context(), s.store, &s.logger)
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your history will appear here once you generate your first image.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSTYLE\tPROMPT")
			for _, item := range items {
				created := time.UnixMilli(item.ID).Local().Format(time.DateTime)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, created, item.Style, item.Prompt)
			}
			return tw.Flush()
		},
	}
}

func newHistoryExportCmd(global *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write base and result images of every history item to a zip archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer s.Close()

			items := history.LoadOrEmpty(cmd.Context(), s.store, &s.logger)
			entries, err := history.ExportEntries(items)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := zip.Write(f, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", len(items), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "nanobanana-history.zip", "archive path")
	return cmd
}
