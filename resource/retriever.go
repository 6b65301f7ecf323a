// Package resource resolves robot description references to local bytes.
// A reference is a plain filesystem path, a package://name/rel/path URI
// resolved against a search path, or a remote URL fetched with go-getter.
package resource

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	getter "github.com/hashicorp/go-getter"
	"github.com/pkg/errors"
)

// PackagePathEnvVar is the environment variable holding the colon-separated
// list of directories searched for package:// references. Each directory is
// expected to contain one subdirectory per package.
const PackagePathEnvVar = "KINETREE_PACKAGE_PATH"

const packageScheme = "package://"

// NewUnknownPackageError returns the error for a package name absent from
// every search directory.
func NewUnknownPackageError(name string) error {
	return errors.Errorf("package %q not found on %s", name, PackagePathEnvVar)
}

// Retriever resolves description references. The zero search path is read
// from the environment at construction; pass WithSearchPath to override.
type Retriever struct {
	logger     golog.Logger
	searchPath []string
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithSearchPath replaces the environment-derived package search path.
func WithSearchPath(dirs []string) RetrieverOption {
	return func(r *Retriever) {
		r.searchPath = dirs
	}
}

// NewRetriever returns a retriever whose package search path comes from
// PackagePathEnvVar unless overridden.
func NewRetriever(logger golog.Logger, opts ...RetrieverOption) *Retriever {
	r := &Retriever{logger: logger}
	if value := os.Getenv(PackagePathEnvVar); value != "" {
		r.searchPath = filepath.SplitList(value)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve resolves a reference and returns its contents.
func (r *Retriever) Retrieve(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, packageScheme):
		path, err := r.resolvePackage(ref)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	case isRemote(ref):
		return r.download(ctx, ref)
	default:
		return os.ReadFile(ref)
	}
}

// resolvePackage maps package://name/rel/path onto the first search
// directory containing the named package.
func (r *Retriever) resolvePackage(ref string) (string, error) {
	trimmed := strings.TrimPrefix(ref, packageScheme)
	name, rel, found := strings.Cut(trimmed, "/")
	if !found || name == "" {
		return "", errors.Errorf("malformed package reference %q", ref)
	}
	for _, dir := range r.searchPath {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Join(candidate, filepath.FromSlash(rel)), nil
		}
	}
	return "", NewUnknownPackageError(name)
}

// download fetches a remote reference into a temporary file and returns its
// contents. The temporary file is removed before returning.
func (r *Retriever) download(ctx context.Context, ref string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "kinetree-resource-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Errorw("failed to clean up download directory", "error", err)
		}
	}()

	dst := filepath.Join(dir, "description")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  ref,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve %q", ref)
	}
	return os.ReadFile(dst)
}

func isRemote(ref string) bool {
	parsed, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "http", "https", "ftp", "s3":
		return true
	default:
		return false
	}
}
