// Package docsource fetches the externally edited content document and
// flattens it into the H1:/H2:/H3:/H4: marker lines the doctree parser
// expects.
package docsource

import (
	"context"
	"strings"
)

// DocumentSource fetches one document. The returned revision is an opaque
// token compared by equality only; the sync pipeline uses it to skip
// redundant passes.
type DocumentSource interface {
	Fetch(ctx context.Context, docID string) (text string, revision string, err error)
}

// DocIDFromURL extracts the document id from a share URL. Share links carry
// the id in the "/d/<id>/..." segment; a bare id passes through unchanged.
func DocIDFromURL(url string) string {
	const marker = "/d/"
	if i := strings.Index(url, marker); i >= 0 {
		rest := url[i+len(marker):]
		if j := strings.IndexAny(rest, "/?#"); j >= 0 {
			return rest[:j]
		}
		return rest
	}

	trimmed := strings.TrimRight(url, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
