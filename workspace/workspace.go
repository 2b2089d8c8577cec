package workspace

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yaoapp/kun/log"
	"golang.org/x/text/unicode/norm"
)

// Prefix the name prefix of every workspace directory
const Prefix = "docapi-"

// Manager creates request scoped workspaces under a root directory
type Manager struct {
	root string
}

// Workspace a private directory owned by one request
type Workspace struct {
	ID       string
	Dir      string
	mu       sync.Mutex
	seq      int
	released bool
}

// NewManager create a workspace manager, an empty root uses the OS temp directory
func NewManager(root string) (*Manager, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "docapi")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	return &Manager{root: root}, nil
}

// Root returns the root directory
func (m *Manager) Root() string {
	return m.root
}

// Acquire creates a new empty workspace
func (m *Manager) Acquire() (*Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(m.root, Prefix+id)
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// Sweep removes the workspaces last modified before ttl ago
func (m *Manager) Sweep(ttl time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, err
	}

	removed := 0
	deadline := time.Now().Add(-ttl)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(deadline) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(m.root, entry.Name())); err != nil {
			log.Error("[Workspace] sweep %s: %s", entry.Name(), err.Error())
			continue
		}
		removed++
	}
	return removed, nil
}

// Stage writes an upload into the workspace and returns its path. Every
// upload gets its own sub directory so equal names never collide.
func (w *Workspace) Stage(name string, r io.Reader) (string, error) {
	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		return "", fmt.Errorf("workspace %s was released", w.ID)
	}
	w.seq++
	dir := filepath.Join(w.Dir, fmt.Sprintf("in-%03d", w.seq))
	w.mu.Unlock()

	if err := os.Mkdir(dir, 0700); err != nil {
		return "", err
	}

	path := filepath.Join(dir, SafeName(name))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return path, nil
}

// StageBytes writes data into the workspace and returns its path
func (w *Workspace) StageBytes(name string, data []byte) (string, error) {
	return w.Stage(name, bytes.NewReader(data))
}

// Mkdir creates a named sub directory
func (w *Workspace) Mkdir(name string) (string, error) {
	dir := filepath.Join(w.Dir, SafeName(name))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// Release removes the workspace. It is safe to call more than once.
func (w *Workspace) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return nil
	}
	w.released = true
	return os.RemoveAll(w.Dir)
}

// SafeName strips directories and unsafe characters from an uploaded file name
func SafeName(name string) string {
	name = norm.NFC.String(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '/' || r == ':' {
			return '_'
		}
		return r
	}, name)

	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}

// MimeType returns the detected MIME type of data
func MimeType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsPDF reports whether data looks like a PDF
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}
