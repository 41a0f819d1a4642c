package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/freekieb7/myat/http"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrAssetNotFound = errors.New("asset: not found")
	ErrInvalidPath   = errors.New("asset: invalid path")
)

const defaultMimeType = "application/octet-stream"

// Gateway serves files from a file system under a URL prefix. It implements
// http.AssetGateway.
type Gateway struct {
	prefix string
	fsys   fs.FS
	logger *slog.Logger
}

// New returns a gateway serving fsys under prefix. The prefix is normalised to
// start with "/" and to carry no trailing slash.
func New(prefix string, fsys fs.FS) *Gateway {
	return &Gateway{
		prefix: normalisePrefix(prefix),
		fsys:   fsys,
		logger: slog.Default(),
	}
}

// Dir returns a gateway over a directory on disk.
func Dir(prefix, root string) (*Gateway, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("asset: root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset: root %s is not a directory", root)
	}

	return New(prefix, os.DirFS(abs)), nil
}

func (g *Gateway) WithLogger(logger *slog.Logger) *Gateway {
	g.logger = logger
	return g
}

func (g *Gateway) PathPrefix() string {
	return g.prefix
}

func (g *Gateway) Lookup(relativePath string) (http.Asset, bool) {
	asset, err := g.Load(relativePath)
	if err != nil {
		if !errors.Is(err, ErrAssetNotFound) && !errors.Is(err, ErrInvalidPath) {
			g.logger.Error("asset: reading file failed", "path", relativePath, "error", err)
		}
		return http.Asset{}, false
	}
	return asset, true
}

// Load reads the file at relativePath. Query strings are ignored and the path
// may not leave the gateway's root.
func (g *Gateway) Load(relativePath string) (http.Asset, error) {
	name, err := cleanPath(relativePath)
	if err != nil {
		return http.Asset{}, err
	}

	info, err := fs.Stat(g.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return http.Asset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, relativePath)
		}
		return http.Asset{}, err
	}
	if info.IsDir() {
		return http.Asset{}, fmt.Errorf("%w: %s is a directory", ErrAssetNotFound, relativePath)
	}

	data, err := fs.ReadFile(g.fsys, name)
	if err != nil {
		return http.Asset{}, err
	}

	return http.Asset{
		Path:     "/" + name,
		MimeType: MimeType(name, data),
		Data:     data,
	}, nil
}

// MimeType resolves the content type from the file extension, then from the
// content itself.
func MimeType(name string, data []byte) string {
	if ext := path.Ext(name); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}

	if len(data) > 0 {
		if detected := mimetype.Detect(data); detected != nil {
			return detected.String()
		}
	}

	return defaultMimeType
}

func cleanPath(relativePath string) (string, error) {
	if i := strings.IndexAny(relativePath, "?#"); i >= 0 {
		relativePath = relativePath[:i]
	}
	if strings.Contains(relativePath, "\\") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relativePath)
	}

	for _, part := range strings.Split(relativePath, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, relativePath)
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+relativePath), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relativePath)
	}

	return name, nil
}

func normalisePrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
