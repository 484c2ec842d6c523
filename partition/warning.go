package partition

import "fmt"

// Warning is a non-fatal problem met while partitioning
type Warning struct {
	// Page is the 1-based page the warning concerns, 0 for the document
	Page    int
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}
