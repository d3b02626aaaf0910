package avatars

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNoExtension is returned when the client filename carries no extension
// to derive the stored name from.
var ErrNoExtension = errors.New("uploaded filename has no extension")

// DefaultPath is the bundled placeholder used when registration carries no
// upload.
const DefaultPath = "static/assets/img/avatar_base.png"

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the uploaded bytes under a random 32-hex-char name with the
// extension taken from the client filename, and returns the relative path.
// Content is stored as-is; only the extension is parsed.
func (s *Store) Save(filename string, src io.Reader) (string, error) {
	ext, err := extension(filename)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New()
	path := filepath.Join(s.dir, hex.EncodeToString(id[:])+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// extension returns the lower-cased part after the last dot, dot included.
func extension(filename string) (string, error) {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return "", ErrNoExtension
	}
	return "." + strings.ToLower(filename[i+1:]), nil
}
