// Command modify-server runs the Modify mood-based music recommender API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/modifymusic/modify/internal/auth"
	"github.com/modifymusic/modify/internal/autotag"
	"github.com/modifymusic/modify/internal/catalog"
	"github.com/modifymusic/modify/internal/db"
	"github.com/modifymusic/modify/internal/detect"
	"github.com/modifymusic/modify/internal/prefs"
	"github.com/modifymusic/modify/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	databaseURL := os.Getenv("DATABASE_URL")
	jwtSecret := os.Getenv("MODIFY_JWT_SECRET")
	if databaseURL == "" || jwtSecret == "" {
		return fmt.Errorf("please set DATABASE_URL and MODIFY_JWT_SECRET environment variables")
	}

	addr := os.Getenv("MODIFY_ADDR")
	if addr == "" {
		addr = web.DefaultAddr
	}
	musicDir := os.Getenv("MODIFY_MUSIC_DIR")
	if musicDir == "" {
		musicDir = "music"
	}
	inferenceScript := os.Getenv("MODIFY_INFERENCE_SCRIPT")
	if inferenceScript == "" {
		inferenceScript = "emotion_inference.py"
	}

	uploadDir := filepath.Join(os.TempDir(), "modify-uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}

	ctx := context.Background()

	database, err := db.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	if err := database.Seed(ctx); err != nil {
		return err
	}
	if err := tagUntagged(ctx, database); err != nil {
		return err
	}

	catalogService := catalog.NewService(
		database.Songs(),
		catalog.NewFilesystemSource(musicDir, "/music"),
	)

	server := web.NewServer(web.ServerConfig{
		Addr:      addr,
		MusicDir:  musicDir,
		UploadDir: uploadDir,
		Auth:      auth.New(jwtSecret),
		Users:     database.Users(),
		History:   database.Recommendations(),
		Catalog:   catalogService,
		Prefs:     prefs.New(database.Interactions()),
		Emotion:   detect.NewPythonDetector(inferenceScript),
		Vibe:      detect.StubVibeDetector{},
	})

	return server.Run()
}

// tagUntagged derives mood tags for catalog songs that were inserted without
// one, clustering them by their stored audio features.
func tagUntagged(ctx context.Context, database *db.DB) error {
	untagged, err := database.Songs().ListUntagged(ctx)
	if err != nil {
		return err
	}
	if len(untagged) == 0 {
		return nil
	}

	tags := autotag.Assign(untagged, autotag.DefaultConfig())
	if err := database.Songs().UpdateMoodTags(ctx, tags); err != nil {
		return err
	}

	log.Printf("Derived mood tags for %d untagged songs", len(tags))
	return nil
}
