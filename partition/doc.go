// Package partition splits a PDF into an ordered list of typed elements.
//
// A strategy decides where the text comes from. The fast strategy reads the
// text layer only. The hi_res strategy also OCRs pages without a text layer
// and, when asked, detects tables and exports embedded images. The ocr_only
// strategy renders and recognizes every page. The auto strategy picks one of
// the others from the request and the document.
//
// Per page, elements come out as headers, then body content in reading order
// with tables placed by vertical position and images last, then footers. A
// PageBreak element separates consecutive pages.
//
// Basic usage:
//
//	r, err := reader.Open("report.pdf")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	res, err := partition.New(r, "report.pdf", partition.DefaultOptions()).Partition(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    log.Println(w)
//	}
package partition
