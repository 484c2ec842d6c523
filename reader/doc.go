// Package reader gives page-level access to PDF content for partitioning.
//
// Object parsing, stream decoding and text-state interpretation are done by
// github.com/ledongthuc/pdf; this package turns that engine's per-glyph
// output into word fragments, ruling lines, link annotations and decoded
// images, and recovers engine panics on malformed files into errors.
//
// # Opening PDF Files
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any io.ReaderAt.
//
// # Page Access
//
// Pages are 1-indexed:
//
//	page, err := r.Page(1)
//	for _, frag := range page.Fragments {
//	    fmt.Println(frag.Text, frag.X, frag.Y)
//	}
//
// # Document Information
//
//   - PageCount() - number of pages
//   - Info() - title, author and producer fields from the Info dictionary
//   - Outline() - bookmark tree
//   - Links(n) - URI link annotations on a page
//   - Images(n) - image XObjects on a page
package reader
