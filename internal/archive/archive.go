// Package archive writes deleted surveys to object storage so campaign data
// survives operator mistakes. Archiving is optional and best effort: a nil
// backend disables it, and failures never block the delete.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/prachar-hq/apiserver/config"
	"github.com/prachar-hq/apiserver/types"
)

const contentTypeJSON = "application/json"

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// NewBackend constructs the object storage backend named by cfg.Backend.
// "none" or empty yields a nil backend, which disables archiving.
func NewBackend(ctx context.Context, cfg config.ArchiveConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "minio":
		return NewMinioBackend(cfg.Minio)
	case "gcs":
		return NewGCSBackend(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// Archiver stores deleted survey documents as JSON objects keyed by id.
type Archiver struct {
	backend ObjectStorage
	log     zerolog.Logger
}

// NewArchiver constructs an Archiver. A nil backend yields a no-op archiver.
func NewArchiver(backend ObjectStorage, log zerolog.Logger) *Archiver {
	return &Archiver{backend: backend, log: log}
}

// Enabled reports whether a backend is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.backend != nil
}

// EnsureBucket prepares the archive bucket at startup.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return a.backend.EnsureBucket(ctx)
}

// Survey archives the deleted survey under surveys/<id>.json. Failures are
// logged and swallowed.
func (a *Archiver) Survey(ctx context.Context, survey types.Survey) {
	if !a.Enabled() {
		return
	}

	data, err := json.Marshal(survey)
	if err != nil {
		a.log.Error().Err(err).Str("survey_id", survey.ID.Hex()).Msg("encode survey archive")
		return
	}

	key := surveyKey(survey.ID.Hex())
	if err := a.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentTypeJSON); err != nil {
		a.log.Error().Err(err).Str("key", key).Msg("archive deleted survey")
		return
	}
	a.log.Info().Str("key", key).Str("bucket", a.backend.Bucket()).Msg("archived deleted survey")
}

// Fetch reads an archived survey back from object storage.
func (a *Archiver) Fetch(ctx context.Context, id string) (types.Survey, error) {
	if !a.Enabled() {
		return types.Survey{}, errors.New("archive backend is not configured")
	}

	key := surveyKey(id)
	reader, err := a.backend.Get(ctx, key)
	if err != nil {
		return types.Survey{}, fmt.Errorf("read archived survey %s: %w", key, err)
	}
	defer reader.Close()

	var survey types.Survey
	if err := json.NewDecoder(reader).Decode(&survey); err != nil {
		return types.Survey{}, fmt.Errorf("decode archived survey %s: %w", key, err)
	}
	return survey, nil
}

// Remove deletes an archived survey object, typically after a restore.
func (a *Archiver) Remove(ctx context.Context, id string) error {
	if !a.Enabled() {
		return errors.New("archive backend is not configured")
	}
	return a.backend.Delete(ctx, surveyKey(id))
}

func surveyKey(id string) string {
	return "surveys/" + id + ".json"
}
