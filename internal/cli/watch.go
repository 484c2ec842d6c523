package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract/deps"
	"github.com/tsawler/pdfextract/internal/catalog"
	"github.com/tsawler/pdfextract/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var existing bool
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Extract PDFs as they are added to a directory",
		Long: `Watches a directory and extracts each PDF once its size has stopped
changing. Files are processed one at a time. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return errors.New(dir + " is not a directory")
			}

			var cat *catalog.Catalog
			if c, err := catalog.Open(a.cfg.CatalogPath); err != nil {
				a.logger.Warn("cli: history catalog unavailable", "path", a.cfg.CatalogPath, "error", err)
			} else {
				cat = c
				defer cat.Close()
			}

			w := watch.New(dir,
				time.Duration(a.cfg.Watch.IntervalMS)*time.Millisecond,
				a.cfg.Watch.MaxPerSecond,
				func(ctx context.Context, path string) error {
					rep := a.extractOne(ctx, path, cat)
					printReport(cmd, rep)
					if rep.Error != "" {
						return errors.New(rep.Error)
					}
					return nil
				})
			w.Logger = a.logger
			w.Existing = existing

			cmd.Println(deps.OK("watching " + dir))
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&existing, "existing", false, "also extract PDFs already in the directory")
	return cmd
}
