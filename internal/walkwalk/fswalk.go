// Package walkwalk provides a deterministic, filterable filesystem walker
// used to discover example files for batch scoring.
package walkwalk

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo is a minimal, deterministic descriptor of a collected file.
type FileInfo struct {
	RelPath   string // root-relative path with forward slashes
	AbsPath   string // absolute filesystem path
	Size      int64  // size in bytes
	SHA256Hex string // lowercase hex sha256 of the file contents
	Ext       string // lowercase extension including dot (e.g., ".json")
}

// Options filters the walk.
type Options struct {
	// Exts keeps only files with these lowercase extensions (".json").
	// Empty keeps every file.
	Exts map[string]struct{}
	// Exclude skips entries whose base name equals or starts with a key.
	Exclude map[string]struct{}
	// MaxFileBytes skips larger files; 0 means no limit.
	MaxFileBytes int64
	// MaxBytes stops collecting once the total size would exceed it; 0
	// means no limit.
	MaxBytes       int64
	FollowSymlinks bool
}

// DefaultExclude lists directories that never hold examples.
func DefaultExclude() map[string]struct{} {
	return map[string]struct{}{".git": {}, "node_modules": {}, ".tmp-": {}}
}

type walkState struct {
	opts  Options
	root  string
	total int64
	files []FileInfo
}

// CollectFiles walks src and returns the matching files sorted by RelPath,
// together with their total size. Unreadable entries are skipped.
func CollectFiles(src string, opts Options) ([]FileInfo, int64, error) {
	root, err := filepath.Abs(src)
	if err != nil {
		return nil, 0, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, 0, err
	}
	ws := &walkState{opts: opts, root: root}
	if err := filepath.WalkDir(root, ws.visit); err != nil {
		return nil, 0, err
	}
	sort.Slice(ws.files, func(i, j int) bool { return ws.files[i].RelPath < ws.files[j].RelPath })
	return ws.files, ws.total, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return nil
	}
	if ws.opts.MaxBytes > 0 && ws.total >= ws.opts.MaxBytes {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok {
		return nil
	}
	if rel != "." && excluded(filepath.Base(rel), ws.opts.Exclude) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		if rel != "." && !ws.opts.FollowSymlinks && isSymlink(d) {
			return filepath.SkipDir
		}
		return nil
	}
	return ws.handleFile(path, rel, d)
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

func (ws *walkState) handleFile(path, rel string, d fs.DirEntry) error {
	if !ws.opts.FollowSymlinks && isSymlink(d) {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if len(ws.opts.Exts) > 0 {
		if _, ok := ws.opts.Exts[ext]; !ok {
			return nil
		}
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if ws.opts.MaxFileBytes > 0 && info.Size() > ws.opts.MaxFileBytes {
		return nil
	}
	if ws.opts.MaxBytes > 0 && ws.total+info.Size() > ws.opts.MaxBytes {
		return nil
	}
	sumHex, err := sha256File(path)
	if err != nil {
		return nil
	}
	ws.files = append(ws.files, FileInfo{
		RelPath:   rel,
		AbsPath:   path,
		Size:      info.Size(),
		SHA256Hex: sumHex,
		Ext:       ext,
	})
	ws.total += info.Size()
	return nil
}

// isSymlink reports whether the DirEntry is a symlink (file or directory).
func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}

// excluded reports whether base equals or begins with any exclude key, so
// "build" also skips "build-old".
func excluded(base string, exclude map[string]struct{}) bool {
	if _, ok := exclude[base]; ok {
		return true
	}
	for k := range exclude {
		if strings.HasPrefix(base, k) {
			return true
		}
	}
	return false
}

// sha256File computes a hex-encoded sha256 for the file at path.
func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
