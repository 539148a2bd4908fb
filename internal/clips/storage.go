package clips

import "context"

// ArtifactRepository mirrors rendered clips to object storage. Optional;
// mirror failures are never fatal to a job.
type ArtifactRepository interface {
	UploadClip(ctx context.Context, localPath, key string) (string, error)
	RemoveObject(ctx context.Context, key string) error
}
