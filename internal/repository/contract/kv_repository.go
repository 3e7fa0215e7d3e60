package contract

import "context"

// DocRevisionKey stores the last synced document revision token.
const DocRevisionKey = "doc_revision"

type KVRepository interface {
	// Get returns "" when the key has never been written.
	Get(ctx context.Context, key string) (string, error)
	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value string) error
}
