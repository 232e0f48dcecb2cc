package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrInvalidPath         = errors.New("invalid stored file path")
)

// Upload kinds, one sub directory each.
const (
	KindPhotos     = "photos"
	KindActivities = "activities"
	KindDocuments  = "documents"
)

var (
	ImageExtensions    = []string{".png", ".jpg", ".jpeg", ".gif"}
	PhotoExtensions    = []string{".jpg", ".jpeg", ".png"}
	DocumentExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}
)

// Local keeps uploads on disk under a single root, one sub directory per kind.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: root}, nil
}

// Save stores src under kind/ with a random name and returns the relative path.
func (l *Local) Save(kind, originalName string, allowed []string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !Allowed(ext, allowed) {
		return "", ErrExtensionNotAllowed
	}
	dir := filepath.Join(l.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(kind, name), nil
}

// SaveFile stores an uploaded form file.
func (l *Local) SaveFile(kind string, header *multipart.FileHeader, allowed []string) (string, error) {
	if !Allowed(filepath.Ext(header.Filename), allowed) {
		return "", ErrExtensionNotAllowed
	}
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return l.Save(kind, header.Filename, allowed, src)
}

func (l *Local) Remove(rel string) error {
	full, err := l.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Local) Open(rel string) (*os.File, error) {
	full, err := l.resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Path returns the absolute location of a stored file that exists.
func (l *Local) Path(rel string) (string, error) {
	full, err := l.resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}

// Handler serves stored files under prefix, limited to the given kinds.
// Directory listings are not served.
func (l *Local) Handler(prefix string, kinds ...string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(l.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, prefix)
		if strings.HasSuffix(rel, "/") || !slices.Contains(kinds, kindOf(rel)) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// kindOf returns the first segment of the cleaned relative path.
func kindOf(rel string) string {
	clean := strings.TrimPrefix(path.Clean("/"+rel), "/")
	kind, _, _ := strings.Cut(clean, "/")
	return kind
}

func (l *Local) resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if rel == "" || clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func Allowed(ext string, allowed []string) bool {
	ext = strings.ToLower(ext)
	for _, candidate := range allowed {
		if ext == candidate {
			return true
		}
	}
	return false
}
