// Package deps checks for and installs the external programs pdfextract
// shells out to: poppler's pdftoppm and pdfimages, tesseract, and the
// tesseract language data for the configured OCR languages.
//
// Installation is strictly sequential. Every package is installed with its
// own package-manager command and the first failure aborts the run:
//
//	checker := deps.NewChecker(command.Exec{})
//	report := checker.Check(ctx, deps.DefaultRequirements([]string{"eng"}))
//	if !report.OK() {
//	    manager, err := deps.DetectManager(command.Exec{})
//	    ...
//	    err = deps.NewInstaller(command.Exec{}, manager).Install(ctx, report.Missing())
//	}
package deps
