package driven

import "context"

// ArtifactSink ships generated files to remote storage.
type ArtifactSink interface {
	// Upload stores each file under prefix/<base name>.
	Upload(ctx context.Context, prefix string, files []string) error
}
