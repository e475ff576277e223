// Package media hands out short-lived presigned URLs so clients upload
// author photos and book covers straight to the bucket instead of
// proxying image bytes through the API.
package media

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const urlTTL = 15 * time.Minute

type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

// New builds a Store against any S3-compatible endpoint (AWS, R2, MinIO)
// from AWS_ENDPOINT, AWS_REGION, AWS_BUCKET and the standard credential
// variables. MEDIA_PUBLIC_URL, when set, is the CDN base used to derive
// the public URL of an uploaded object.
func New(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET not set")
	}

	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_ACCESS_KEY_ID"),
		os.Getenv("AWS_SECRET_ACCESS_KEY"),
		"",
	)
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(os.Getenv("AWS_REGION")),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := os.Getenv("AWS_ENDPOINT"); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
	})

	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		publicURL: os.Getenv("MEDIA_PUBLIC_URL"),
	}, nil
}

// Upload describes a presigned upload the client performs directly.
type Upload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl,omitempty"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// PresignAuthorPhoto returns a one-off PUT URL for an author photo.
func (s *Store) PresignAuthorPhoto(ctx context.Context, authorID, contentType string) (Upload, error) {
	key := fmt.Sprintf("authors/%s/photo-%s%s", authorID, uuid.NewString(), extFor(contentType))
	return s.presignPut(ctx, key, contentType)
}

// PresignBookCover returns a one-off PUT URL for a book cover.
func (s *Store) PresignBookCover(ctx context.Context, bookID, contentType string) (Upload, error) {
	key := fmt.Sprintf("books/%s/cover-%s%s", bookID, uuid.NewString(), extFor(contentType))
	return s.presignPut(ctx, key, contentType)
}

func (s *Store) presignPut(ctx context.Context, key, contentType string) (Upload, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = urlTTL
	})
	if err != nil {
		return Upload{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	up := Upload{
		UploadURL: req.URL,
		Key:       key,
		ExpiresIn: int(urlTTL.Seconds()),
	}
	if s.publicURL != "" {
		up.PublicURL = s.publicURL + "/" + key
	}
	return up, nil
}

// Delete removes an uploaded object, used when a replacement upload
// supersedes an old photo or cover.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// AllowedImageType reports whether the content type is one we accept
// for photos and covers.
func AllowedImageType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}
