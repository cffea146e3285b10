package cache

import (
	"context"
	"strings"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
)

// Backend names accepted by [Open] besides URLs.
const (
	BackendFile = "file"
	BackendNone = "none"
)

// Open returns the cache described by spec:
//
//	""  or "file"              FileCache in dir
//	"none"                     NullCache
//	"redis://..." "rediss://"  RedisCache
//	"mongodb://..." "mongodb+srv://..."  MongoCache
//
// Any other spec is an INVALID_INPUT error.
func Open(ctx context.Context, spec, dir string) (Cache, error) {
	switch {
	case spec == "" || spec == BackendFile:
		if dir == "" {
			return nil, rmerrors.New(rmerrors.ErrCodeInvalidInput, "file cache needs a directory")
		}
		return NewFileCache(dir)
	case spec == BackendNone || spec == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		c, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, rmerrors.New(rmerrors.ErrCodeInvalidInput,
		"unknown cache backend %q (use file, none, redis://... or mongodb://...)", spec)
}

// Describe returns a short, credential-free name of the backend for logs.
func Describe(spec string) string {
	switch {
	case spec == "" || spec == BackendFile:
		return BackendFile
	case spec == BackendNone || spec == "off":
		return BackendNone
	case strings.HasPrefix(spec, "redis"):
		return "redis"
	case strings.HasPrefix(spec, "mongodb"):
		return "mongodb"
	}
	return "unknown"
}
