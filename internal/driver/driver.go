// Package driver orchestrates manifest-to-IR emission: manifest discovery,
// parallel per-module lowering and the disk cache that skips unchanged
// modules.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"vesper/internal/layout"
	"vesper/internal/manifest"
)

// Request configures one emission run.
type Request struct {
	Paths    []string
	Target   layout.Target
	Jobs     int
	Cache    *DiskCache // nil disables caching
	Progress ProgressSink
}

// Result is the outcome for one manifest.
type Result struct {
	Path      string
	Module    string
	IR        string
	FromCache bool
}

// ListManifests returns the sorted declaration manifests under dir. The
// project file is configuration, not input, so it never appears here.
func ListManifests(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		if filepath.Base(path) == "vesper.toml" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// EmitAll emits every manifest in the request, in parallel. Result indexes
// match request path indexes.
func EmitAll(ctx context.Context, req *Request) ([]Result, error) {
	paths := req.Paths
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				res, err := emitOne(path, req)
				if err != nil {
					notify(req.Progress, Event{Path: path, Status: StatusError, Err: err})
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = res
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func emitOne(path string, req *Request) (Result, error) {
	start := time.Now()
	notify(req.Progress, Event{Path: path, Stage: StageLoad, Status: StatusWorking})

	f, raw, err := manifest.Load(path)
	if err != nil {
		return Result{}, err
	}

	key := ManifestDigest(raw, req.Target.Triple)
	var cached Payload
	if ok, err := req.Cache.Get(key, &cached); err == nil && ok {
		notify(req.Progress, Event{
			Path: path, Stage: StageEmit, Status: StatusDone,
			Cached: true, Elapsed: time.Since(start),
		})
		return Result{
			Path:      path,
			Module:    cached.Module,
			IR:        cached.IR,
			FromCache: true,
		}, nil
	}

	notify(req.Progress, Event{Path: path, Stage: StageRealize, Status: StatusWorking})
	mod, err := manifest.Realize(f)
	if err != nil {
		return Result{}, err
	}

	notify(req.Progress, Event{Path: path, Stage: StageEmit, Status: StatusWorking})
	text, err := EmitModule(mod, req.Target)
	if err != nil {
		return Result{}, err
	}

	// A failed cache write never fails the build.
	_ = req.Cache.Put(key, &Payload{
		Schema:     diskCacheSchemaVersion,
		Module:     mod.Name,
		Target:     req.Target.Triple,
		SourceHash: key,
		IR:         text,
	})

	notify(req.Progress, Event{
		Path: path, Stage: StageEmit, Status: StatusDone, Elapsed: time.Since(start),
	})
	return Result{Path: path, Module: mod.Name, IR: text}, nil
}
