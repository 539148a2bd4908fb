package repository

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clipforge/clipforge/internal/clips"
	"github.com/pkg/errors"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
	bucket        string
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient, bucket string) clips.ArtifactRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
		bucket:        bucket,
	}
}

func (a *awsRepository) UploadClip(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrap(err, "awsRepository.UploadClip.Open")
	}
	defer f.Close()

	contentType := "video/mp4"
	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	}); err != nil {
		return "", errors.Wrap(err, "awsRepository.UploadClip.PutObject")
	}

	getObjectReq, err := a.preSignClient.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: &a.bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(24*time.Hour),
	)
	if err != nil {
		return "", errors.Wrap(err, "awsRepository.UploadClip.Presign")
	}
	return getObjectReq.URL, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, key string) error {
	if _, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	}); err != nil {
		return errors.Wrap(err, "awsRepository.RemoveObject")
	}
	return nil
}
