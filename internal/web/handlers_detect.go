package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/modifymusic/modify/internal/detect"
	"github.com/modifymusic/modify/internal/mood"
)

const maxImageSize = 10 << 20 // 10 MiB

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// EmotionDetect handles POST /api/emotion-detect: runs the facial-emotion
// classifier on an uploaded image. A classifier that finds no usable signal
// is a 400 the client renders as "try again", never a crash.
func (h *Handlers) EmotionDetect(w http.ResponseWriter, r *http.Request) {
	imagePath, cleanup, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), detectTimeout)
	defer cancel()

	result, err := h.emotion.DetectEmotion(ctx, imagePath)
	if errors.Is(err, detect.ErrNoSignal) {
		respondError(w, http.StatusBadRequest, "no face or emotion detected in image")
		return
	}
	if err != nil {
		log.Printf("emotion detection failed: %v", err)
		respondError(w, http.StatusInternalServerError, "emotion detection failed")
		return
	}

	// The relaxed rule applies at the detection boundary, before the label
	// reaches the client.
	emotion := mood.Canonical(result.Emotion)

	respondJSON(w, http.StatusOK, map[string]any{
		"emotion":    emotion,
		"confidence": result.Confidence,
		"message":    fmt.Sprintf("Detected %s with %.2f%% confidence", emotion, result.Confidence),
	})
}

// VibeDetect handles POST /api/vibe-detect: runs the aesthetic detector on
// an uploaded image.
func (h *Handlers) VibeDetect(w http.ResponseWriter, r *http.Request) {
	imagePath, cleanup, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), detectTimeout)
	defer cancel()

	result, err := h.vibe.DetectVibe(ctx, imagePath)
	if err != nil {
		log.Printf("vibe detection failed: %v", err)
		respondError(w, http.StatusInternalServerError, "vibe detection failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// saveUpload validates the multipart image and writes it to the scratch
// directory. On failure it responds itself and returns ok=false. The
// returned cleanup removes the scratch file.
func (h *Handlers) saveUpload(w http.ResponseWriter, r *http.Request) (string, func(), bool) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "no image uploaded")
		return "", nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no image uploaded")
		return "", nil, false
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		respondError(w, http.StatusBadRequest, "only image files are allowed")
		return "", nil, false
	}

	path := filepath.Join(h.uploadDir, "image-"+uuid.NewString()+ext)
	if err := writeUpload(path, file); err != nil {
		log.Printf("saving upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return "", nil, false
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			log.Printf("removing upload failed: %v", err)
		}
	}
	return path, cleanup, true
}

func writeUpload(path string, src multipart.File) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
