// Package detect wraps the external image-analysis collaborators: the
// facial-emotion classifier and the aesthetic vibe detector.
package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoSignal is returned when the classifier produced no usable emotion:
// an unknown label, a reported error, or a failed run. Callers treat all
// three identically as "try again".
var ErrNoSignal = errors.New("no usable emotion signal")

// EmotionResult is the classifier's output.
type EmotionResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"` // 0-100
}

// EmotionDetector classifies the facial emotion in an image file.
type EmotionDetector interface {
	DetectEmotion(ctx context.Context, imagePath string) (*EmotionResult, error)
}

// PythonDetector runs an external python inference script. The script
// prints diagnostics followed by a single JSON object on its last output
// line: {"emotion": ..., "confidence": ...} or {"error": ...}.
type PythonDetector struct {
	python string
	script string
}

// NewPythonDetector creates a detector invoking the given script.
func NewPythonDetector(script string) *PythonDetector {
	return &PythonDetector{python: "python3", script: script}
}

// DetectEmotion runs the inference script on an image. The caller bounds the
// run with ctx; expiry surfaces as ErrNoSignal like any other failed run.
func (d *PythonDetector) DetectEmotion(ctx context.Context, imagePath string) (*EmotionResult, error) {
	out, err := exec.CommandContext(ctx, d.python, d.script, imagePath).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: running inference: %v", ErrNoSignal, err)
	}
	return parseInferenceOutput(out)
}

// parseInferenceOutput extracts the JSON result from the script's last
// output line.
func parseInferenceOutput(out []byte) (*EmotionResult, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := lines[len(lines)-1]

	var payload struct {
		Emotion    string  `json:"emotion"`
		Confidence float64 `json:"confidence"`
		Error      string  `json:"error"`
	}
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		return nil, fmt.Errorf("%w: parsing inference output: %v", ErrNoSignal, err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSignal, payload.Error)
	}
	if payload.Emotion == "" || payload.Emotion == "unknown" {
		return nil, fmt.Errorf("%w: no face or emotion detected", ErrNoSignal)
	}

	return &EmotionResult{
		Emotion:    payload.Emotion,
		Confidence: payload.Confidence,
	}, nil
}
