package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"tensorpool/internal/common/fsutil"
	"tensorpool/pkg/types"
)

func splitGCSURL(uri string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(uri, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid GCS url %q, want gs://bucket/object", uri)
	}
	return bucket, object, nil
}

func loadGCS(ctx context.Context, uri string) (types.Manifest, error) {
	log := zerolog.Ctx(ctx)

	bucket, object, err := splitGCSURL(uri)
	if err != nil {
		return types.Manifest{}, err
	}
	f, err := FormatFromPath(object)
	if err != nil {
		return types.Manifest{}, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("creating GCS storage client: %w", err)
	}
	defer client.Close()

	log.Debug().Str("url", uri).Msg("downloading manifest from GCS")
	startedAt := time.Now()
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return types.Manifest{}, fmt.Errorf("manifest %q: %w", uri, os.ErrNotExist)
		}
		return types.Manifest{}, fmt.Errorf("opening object from GCS %q: %w", uri, err)
	}
	defer r.Close()

	b, err := fsutil.ReadLimited(r, uri, maxManifestBytes)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("downloading from GCS: %w", err)
	}
	log.Debug().Str("url", uri).Int("bytes", len(b)).Dur("duration", time.Since(startedAt)).Msg("downloaded manifest from GCS")
	return Decode(b, f)
}
