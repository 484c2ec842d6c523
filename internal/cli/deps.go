package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract/deps"
)

func (a *app) depsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check or install external tools",
	}
	cmd.AddCommand(a.depsCheckCmd(), a.depsInstallCmd())
	return cmd
}

func (a *app) checker() *deps.Checker {
	c := deps.NewChecker(a.runner)
	c.Logger = a.logger
	return c
}

func (a *app) depsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which external tools are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := a.checker().Check(cmd.Context(), deps.DefaultRequirements(a.cfg.Languages))
			cmd.Print(deps.Format(report))
			return report.Err()
		},
	}
}

func (a *app) depsInstallCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install missing tools with the system package manager",
		Long: `Installs poppler, tesseract and the tesseract language data for the
configured languages, one package at a time, then checks again. The first
failing package-manager command aborts the install.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reqs := deps.DefaultRequirements(a.cfg.Languages)
			checker := a.checker()

			report := checker.Check(ctx, reqs)
			missing := report.Missing()
			if len(missing) == 0 {
				cmd.Println(deps.OK("all tools are installed"))
				return nil
			}

			manager, err := deps.DetectManager(a.runner)
			if err != nil {
				return err
			}
			installer := deps.NewInstaller(a.runner, manager)
			installer.DryRun = dryRun
			installer.Out = cmd.OutOrStdout()
			installer.Logger = a.logger

			if dryRun {
				return installer.Install(ctx, missing)
			}
			if err := installer.Install(ctx, missing); err != nil {
				return err
			}

			report, err = deps.Verify(ctx, checker, reqs)
			cmd.Print(deps.Format(report))
			if err != nil {
				return errors.Join(errors.New("verification failed after install"), err)
			}
			cmd.Println(deps.OK("install complete"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands without running them")
	return cmd
}
