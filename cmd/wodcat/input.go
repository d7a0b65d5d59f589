package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/iquod/wod/compress"
	"github.com/iquod/wod/profile"
	"github.com/iquod/wod/view"
)

// input is one decoded input file.
type input struct {
	path  string
	index []profile.IndexEntry
	casts []profile.Profile
}

// readInput returns the decompressed contents of path, or of stdin for "-".
func (a *app) readInput(stdin io.Reader, path string) ([]byte, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	rc, kind, err := compress.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.log.WithFields(logrus.Fields{
		"path":        path,
		"compression": kind.String(),
		"bytes":       len(data),
	}).Debug("read input")

	return data, nil
}

// load indexes and decodes every path. No paths means stdin.
func (a *app) load(ctx context.Context, stdin io.Reader, paths []string) ([]input, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	out := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := a.readInput(stdin, path)
		if err != nil {
			return nil, err
		}

		index, err := profile.BuildIndex(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		casts, err := profile.DecodeIndexed(ctx, data, index, a.cfg.Workers, a.cfg.DecodeOptions(a.log)...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		a.log.WithFields(logrus.Fields{"path": path, "casts": len(casts)}).Info("decoded input")
		out = append(out, input{path: path, index: index, casts: casts})
	}

	return out, nil
}

// loadCasts decodes every path and keeps the casts matching filter, if any.
func (a *app) loadCasts(ctx context.Context, stdin io.Reader, paths []string, filter string) ([]profile.Profile, error) {
	inputs, err := a.load(ctx, stdin, paths)
	if err != nil {
		return nil, err
	}

	var casts []profile.Profile
	for _, in := range inputs {
		casts = append(casts, in.casts...)
	}

	return a.selectCasts(casts, filter)
}

func (a *app) selectCasts(casts []profile.Profile, filter string) ([]profile.Profile, error) {
	if filter == "" {
		return casts, nil
	}

	f, err := view.CompileFilter(filter)
	if err != nil {
		return nil, err
	}
	selected, err := f.Select(casts)
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"filter":   f.String(),
		"casts":    len(casts),
		"selected": len(selected),
	}).Info("filtered casts")

	return selected, nil
}
