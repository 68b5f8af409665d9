// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "valid config",
			cfg: &Config{
				MaxConcurrentPDFs: 10,
				MaxWorkersPerPDF:  2,
				WorkerTimeout:     5 * time.Second,
				ParsingMode:       BestEffort,
				MaxRetries:        1,
			},
			shouldErr: false,
		},
		{
			name: "invalid MaxConcurrentPDFs (too low)",
			cfg: &Config{
				MaxConcurrentPDFs: 0,
				MaxWorkersPerPDF:  2,
				WorkerTimeout:     5 * time.Second,
				ParsingMode:       BestEffort,
				MaxRetries:        1,
			},
			shouldErr: true,
		},
		{
			name: "invalid ParsingMode",
			cfg: &Config{
				MaxConcurrentPDFs: 10,
				MaxWorkersPerPDF:  2,
				WorkerTimeout:     5 * time.Second,
				ParsingMode:       "invalid-mode",
				MaxRetries:        1,
			},
			shouldErr: true,
		},
		{
			name: "missing WorkerTimeout",
			cfg: &Config{
				MaxConcurrentPDFs: 10,
				MaxWorkersPerPDF:  2,
				ParsingMode:       BestEffort,
				MaxRetries:        1,
			},
			shouldErr: true,
		},
		{
			name:      "default config is valid",
			cfg:       NewDefaultConfig(),
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldErr {
				assert.Error(t, err, "expected validation error")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestOptions_AbortOnWarning(t *testing.T) {
	assert.False(t, DefaultOptions().abortOnWarning())
	assert.True(t, Options{AbortOnWarning: true}.abortOnWarning())
	assert.True(t, Options{Mode: Strict}.abortOnWarning())
	assert.False(t, Options{Mode: BestEffort}.abortOnWarning())
}
