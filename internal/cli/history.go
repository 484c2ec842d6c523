package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract/internal/catalog"
)

func (a *app) historyCmd() *cobra.Command {
	var (
		limit int
		file  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent extraction runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.Open(a.cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer cat.Close()

			var runs []catalog.Run
			if file != "" {
				runs, err = cat.ByFile(cmd.Context(), file)
			} else {
				runs, err = cat.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("No extraction runs recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STARTED\tFILE\tSTRATEGY\tSTATUS\tTITLES\tTEXT\tTABLES\tIMAGES\tDURATION")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.StartedAt.Format(time.DateTime), r.FileName(), r.Strategy, r.Status,
					r.Statistics.Titles, r.Statistics.TextBlocks, r.Statistics.Tables, r.Statistics.Images,
					r.Duration().Round(time.Millisecond))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&file, "file", "", "only runs of this file name")
	return cmd
}
