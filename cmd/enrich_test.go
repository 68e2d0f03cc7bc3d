//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/laundrymap/enrich-cli/internal/config"
)

func TestMaxConcurrentFiles(t *testing.T) {
	origCfg := cfg
	t.Cleanup(func() { cfg = origCfg })

	cfg = &config.Config{}
	// Zero would make every errgroup Go call block forever.
	assert.Equal(t, 4, maxConcurrentFiles())

	cfg.Enrich.MaxConcurrentFiles = -1
	assert.Equal(t, 4, maxConcurrentFiles())

	cfg.Enrich.MaxConcurrentFiles = 2
	assert.Equal(t, 2, maxConcurrentFiles())
}
