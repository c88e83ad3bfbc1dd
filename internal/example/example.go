// Package example loads scoring examples and scores their predictions.
//
// An example is a JSON document holding the original file content, one or
// more expected patches (optionally carrying '#' selection markers) and the
// predictions to score. Examples are *.json files anywhere under a
// directory; they are read, never written.
package example

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"selection-codec/internal/logging"
	"selection-codec/internal/score"
	"selection-codec/internal/walkwalk"
)

// Example is one scoring example.
type Example struct {
	Name            string             `json:"name"`
	CursorPath      string             `json:"cursor_path,omitempty"`
	Content         string             `json:"content"`
	ExpectedPatches []string           `json:"expected_patches"`
	Predictions     []score.Prediction `json:"predictions,omitempty"`
	Scores          []score.Score      `json:"score,omitempty"`
}

// Score scores every prediction and replaces e.Scores.
func (e *Example) Score() error {
	scores := make([]score.Score, 0, len(e.Predictions))
	for i, p := range e.Predictions {
		s, err := score.ScorePrediction(e.Content, e.ExpectedPatches, p)
		if err != nil {
			return fmt.Errorf("example %q: %w", e.Name, err)
		}
		if s.PatchFailed {
			logging.Warn("prediction patch did not apply", "example", e.Name, "prediction", i)
		}
		scores = append(scores, s)
	}
	e.Scores = scores
	return nil
}

// Load reads an example from path.
func Load(path string) (*Example, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Example
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if e.Name == "" {
		e.Name = filepath.Base(path)
	}
	return &e, nil
}

// Entry is an example loaded from a directory walk.
type Entry struct {
	Path    string
	Digest  string // sha256 of the file as read
	Example *Example
}

// ErrNoExamples reports a directory without any *.json file.
var ErrNoExamples = errors.New("no examples found")

// LoadDir loads every *.json example under dir in path order.
func LoadDir(dir string) ([]Entry, error) {
	files, _, err := walkwalk.CollectFiles(dir, walkwalk.Options{
		Exts:    map[string]struct{}{".json": {}},
		Exclude: walkwalk.DefaultExclude(),
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoExamples)
	}
	out := make([]Entry, 0, len(files))
	for _, fi := range files {
		e, err := Load(fi.AbsPath)
		if err != nil {
			return nil, err
		}
		logging.Debug("loaded example", "path", fi.RelPath, "predictions", len(e.Predictions))
		out = append(out, Entry{Path: fi.AbsPath, Digest: fi.SHA256Hex, Example: e})
	}
	return out, nil
}
