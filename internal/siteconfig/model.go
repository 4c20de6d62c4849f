package siteconfig

import "time"

// Document is the singleton site configuration: free-form top-level fields
// plus the time of the last write.
type Document struct {
	Fields    map[string]any
	UpdatedAt time.Time
}

// Empty reports whether the document was never written.
func (d Document) Empty() bool {
	return d.UpdatedAt.IsZero() && len(d.Fields) == 0
}
