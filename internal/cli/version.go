package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfextract/ocr"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			ocrState := "without OCR"
			if ocr.Enabled {
				ocrState = "with OCR"
			}
			cmd.Printf("pdfextract version %s (%s, %s)\n", version, runtime.Version(), ocrState)
		},
	}
}
