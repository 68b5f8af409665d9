// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sassoftware/pdfgraph/logger"
)

// ParsingMode selects how the parser orchestrator reacts to a recoverable
// malformation: BestEffort records a Warning and continues, Strict
// promotes the same condition to a fatal error.
type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

// Config is the process-wide, validated configuration a caller builds once
// and reuses across runs — concurrency limits, timeouts and the default
// parsing mode. Per-run knobs belong on Options instead.
type Config struct {
	MaxConcurrentPDFs int           `validate:"min=1,max=64"`
	MaxWorkersPerPDF  int           `validate:"min=1,max=16"`
	WorkerTimeout     time.Duration `validate:"required"`
	ParsingMode       ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries        int           `validate:"min=0,max=3"`
	DebugOn           bool
	Logger            logger.LogFunc
}

// NewDefaultConfig returns a Config with the same defaults the CLI harness
// ships with unless overridden.
func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs: 4,
		MaxWorkersPerPDF:  1,
		WorkerTimeout:     30 * time.Second,
		ParsingMode:       BestEffort,
		MaxRetries:        1,
		DebugOn:           false,
	}
}

// Validate checks struct tag constraints via validator.
func (cfg *Config) Validate() error {
	logger.Debug("validating config")
	return validator.New().Struct(cfg)
}

// Options are the per-run parser options: whether a Warning should abort
// the run as if it were fatal, and optional hooks the caller can install
// to observe tokens/objects as they are produced.
type Options struct {
	Mode ParsingMode

	// AbortOnWarning turns every Warning into a fatal error (Strict mode's
	// effective behavior when Mode == Strict).
	AbortOnWarning bool

	// MaxObjects caps the number of objects the Store will create before
	// the run aborts with a fatal error, guarding against pathological or
	// adversarial input.
	MaxObjects int

	// OnToken, if set, is called once per token the Tokenizer produces,
	// before the Lexer consumes it.
	OnToken func(Token)

	// OnObject, if set, is called once per token pushed through the Lexer,
	// with the object it produced (nil if the token produced none) and the
	// warnings that token raised.
	OnObject func(*Object, []Warning)
}

// DefaultOptions returns the BestEffort run options with no hooks and no
// object cap.
func DefaultOptions() Options {
	return Options{Mode: BestEffort}
}

func (o Options) abortOnWarning() bool {
	return o.AbortOnWarning || o.Mode == Strict
}
