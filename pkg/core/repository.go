package core

import "context"

// Repository is the port to the corpus. It supplies the snapshot and receives write-backs.
// Adhering to this interface keeps the engine independent of the storage mechanism.
type Repository interface {
	// List returns every eligible document with its full content.
	List(ctx context.Context) ([]Document, error)

	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (Document, error)

	// Save replaces the content of an existing document.
	// It must return an error wrapping ErrNotFound if the ID no longer exists.
	Save(ctx context.Context, id string, content []byte) error
}

// Committer is implemented by repositories that can record a set of written documents
// as one versioned change (e.g. a git commit).
type Committer interface {
	Commit(ctx context.Context, message string, ids []string) error
}

// Watchable is implemented by repositories that can report changes to the corpus.
type Watchable interface {
	// Watch calls onChange (debounced) whenever a document matching the repository's
	// filters is created, modified or removed. It blocks until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}
