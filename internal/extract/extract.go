// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads a game analysis progress record and writes its
// titles, sorted, to a plain text file with one title per line.
package extract

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/title-extractor/internal/progress"
	"github.com/pdiddy/title-extractor/pkg/types"
)

// Result describes a successful extraction.
type Result struct {
	Input  string   `json:"input" yaml:"input"`
	Output string   `json:"output" yaml:"output"`
	Titles []string `json:"titles" yaml:"titles"`
	Count  int      `json:"count" yaml:"count"`
}

// Extractor runs the read, sort and write pipeline for one configuration.
type Extractor struct {
	cfg types.ExtractConfig
	log *zap.Logger
}

// New returns an Extractor. Empty paths in cfg fall back to the default
// file names. A nil logger disables logging.
func New(cfg types.ExtractConfig, log *zap.Logger) *Extractor {
	def := types.DefaultExtractConfig()
	if cfg.InputPath == "" {
		cfg.InputPath = def.InputPath
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = def.OutputPath
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{cfg: cfg, log: log}
}

// Config returns the effective configuration.
func (x *Extractor) Config() types.ExtractConfig {
	return x.cfg
}

// Run performs the extraction once. The input file is only read. The
// output file is written only after every title has been collected and
// sorted, and is replaced in a single rename, so a failed run never
// leaves it missing or partially written.
func (x *Extractor) Run(ctx context.Context) (Result, error) {
	in, out := x.cfg.InputPath, x.cfg.OutputPath
	res := Result{Input: in, Output: out}

	if err := ctx.Err(); err != nil {
		return res, newError(KindCanceled, in, err)
	}

	x.log.Debug("loading progress record", zap.String("input", in))
	rec, err := progress.Load(in)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return res, newError(KindInputNotFound, in, err)
		case errors.Is(err, progress.ErrDecode):
			return res, newError(KindDecode, in, err)
		default:
			return res, newError(KindRead, in, err)
		}
	}
	x.log.Debug("progress record loaded", zap.Strings("fields", rec.Fields()))

	titles, err := rec.TitleKeys()
	if err != nil {
		return res, newError(classify(err), in, err)
	}
	sort.Strings(titles)

	if err := ctx.Err(); err != nil {
		return res, newError(KindCanceled, out, err)
	}

	x.log.Debug("writing titles", zap.String("output", out), zap.Int("count", len(titles)))
	if err := WriteLines(out, titles); err != nil {
		return res, newError(KindWrite, out, err)
	}

	res.Titles = titles
	res.Count = len(titles)
	x.log.Info("titles extracted", zap.String("output", out), zap.Int("count", res.Count))
	return res, nil
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, progress.ErrMissingField):
		return KindMissingField
	case errors.Is(err, progress.ErrInvalidTitle):
		return KindInvalidTitle
	case errors.Is(err, progress.ErrNotMapping):
		return KindNotMapping
	default:
		return KindDecode
	}
}
