package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tripline/tripline-api/internal/config"
	"github.com/tripline/tripline-api/internal/pkg/database"
	"github.com/tripline/tripline-api/internal/pkg/logger"
	"github.com/tripline/tripline-api/internal/pkg/storage"
)

// Backfills thumbnails for catalog photos that were imported without
// one (thumb_url = ''). The API generates thumbnails synchronously on
// upload, so this worker only touches bulk-loaded rows.
const (
	pollInterval = 5 * time.Second
	maxAttempts  = 3
	thumbWidth   = 400
	thumbHeight  = 300
	jpegQuality  = 85
)

type photoJob struct {
	ID        string `db:"id"`
	ServiceID string `db:"service_id"`
	URL       string `db:"url"`
}

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, Service: "tripline-image-worker"}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().Msg("Starting image-worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	st, err := storage.New(storage.Config{
		Backend:      cfg.StorageBackend,
		S3Endpoint:   cfg.S3Endpoint,
		S3Region:     cfg.S3Region,
		S3Bucket:     cfg.S3Bucket,
		S3AccessKey:  cfg.S3AccessKey,
		S3SecretKey:  cfg.S3SecretKey,
		LocalPath:    cfg.LocalPath,
		LocalBaseURL: cfg.LocalBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional: Redis pub/sub wake-up (polling still runs)
	wake := make(chan struct{}, 1)
	go subscribeWakeups(ctx, rdb, wake)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	lastIdleLog := time.Time{}
	idleLogEvery := 1 * time.Minute

	// Single-process worker: failed rows are retried a few times and
	// then skipped for this run.
	attempts := make(map[string]int)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("image-worker stopped")
			return
		case <-wake:
			// immediate poll
		case <-ticker.C:
		}

		job, ok, err := nextJob(ctx, db, exhausted(attempts))
		if err != nil {
			log.Error().Err(err).Msg("DB error while fetching job")
			continue
		}
		if !ok {
			now := time.Now()
			if lastIdleLog.IsZero() || now.Sub(lastIdleLog) >= idleLogEvery {
				log.Info().Msg("Idle: no photos without thumbnails")
				lastIdleLog = now
			}
			continue
		}

		start := time.Now()
		log.Info().
			Str("photo_id", job.ID).
			Str("url", job.URL).
			Msg("Generating thumbnail")

		thumbURL, width, height, err := processOne(ctx, st, job)
		if err != nil {
			attempts[job.ID]++
			log.Error().
				Err(err).
				Str("photo_id", job.ID).
				Int("attempt", attempts[job.ID]).
				Msg("Thumbnail generation failed")
			continue
		}

		if err := markDone(ctx, db, job.ID, thumbURL, width, height); err != nil {
			log.Error().Err(err).Str("photo_id", job.ID).Msg("Failed to update photo row")
			continue
		}
		delete(attempts, job.ID)

		log.Info().
			Str("photo_id", job.ID).
			Dur("took", time.Since(start)).
			Msg("Thumbnail generated")
	}
}

func processOne(ctx context.Context, st storage.Storage, job *photoJob) (string, int, int, error) {
	key, err := keyFromURL(job.URL)
	if err != nil {
		return "", 0, 0, err
	}

	rc, err := st.Get(ctx, key)
	if err != nil {
		return "", 0, 0, fmt.Errorf("download: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", 0, 0, fmt.Errorf("read: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode: %w", err)
	}

	thumb := imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", 0, 0, fmt.Errorf("encode thumb: %w", err)
	}

	ext := path.Ext(key)
	thumbKey := strings.TrimSuffix(key, ext) + "_thumb.jpg"
	if err := st.Put(ctx, thumbKey, bytes.NewReader(buf.Bytes()), "image/jpeg"); err != nil {
		return "", 0, 0, fmt.Errorf("upload thumb: %w", err)
	}

	return st.GetURL(thumbKey), img.Bounds().Dx(), img.Bounds().Dy(), nil
}

// keyFromURL recovers the storage key from a public photo URL. Catalog
// photo keys always start with "services/".
func keyFromURL(url string) (string, error) {
	idx := strings.Index(url, "services/")
	if idx < 0 {
		return "", fmt.Errorf("no storage key in url %q", url)
	}
	return url[idx:], nil
}

func nextJob(ctx context.Context, db *sqlx.DB, skip []string) (*photoJob, bool, error) {
	query := `
		SELECT id, service_id, url
		FROM service_photos
		WHERE thumb_url = ''
	`
	args := []interface{}{}
	if len(skip) > 0 {
		query += ` AND id <> ALL($1)`
		args = append(args, pq.Array(skip))
	}
	query += ` ORDER BY created_at ASC LIMIT 1`

	var j photoJob
	if err := db.GetContext(ctx, &j, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &j, true, nil
}

func markDone(ctx context.Context, db *sqlx.DB, id, thumbURL string, width, height int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE service_photos
		SET thumb_url = $2,
		    width = CASE WHEN width = 0 THEN $3 ELSE width END,
		    height = CASE WHEN height = 0 THEN $4 ELSE height END
		WHERE id = $1
	`, id, thumbURL, width, height)
	return err
}

func exhausted(attempts map[string]int) []string {
	var ids []string
	for id, n := range attempts {
		if n >= maxAttempts {
			ids = append(ids, id)
		}
	}
	return ids
}

func subscribeWakeups(ctx context.Context, rdb *redis.Client, wake chan<- struct{}) {
	// Polling is still the main mechanism; this just shortens latency.
	sub := rdb.Subscribe(ctx, "photos:imported")
	defer func() { _ = sub.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Channel():
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}

