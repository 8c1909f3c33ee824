package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/utils"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	opts, err := parseArgs([]string{"-e", "host@example.com", "--role", "reader", "--ttl", "30m"})
	require.NoError(t, err)
	assert.Equal(t, utils.Claims{Subject: "ops", Email: "host@example.com", Role: "reader"}, opts.claims)
	assert.Equal(t, 30*time.Minute, opts.ttl)

	opts, err = parseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "editor", opts.claims.Role)
	assert.Equal(t, 12*time.Hour, opts.ttl)

	_, err = parseArgs([]string{"--role", "owner"})
	require.Error(t, err)
	_, err = parseArgs([]string{"--ttl", "0s"})
	require.Error(t, err)
}
