package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplyCommand(t *testing.T) {
	out, err := run(t, "reply", "I", "feel", "so", "anxious")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[anxiety] "))

	out, err = run(t, "reply", "--json", "--turn", "2", "hello there")
	require.NoError(t, err)
	assert.Contains(t, out, `"fallbackIndex": 2`)

	_, err = run(t, "reply", "--fallback", "random", "hello")
	assert.Error(t, err)
}

func TestBandCommand(t *testing.T) {
	out, err := run(t, "band", "7")
	require.NoError(t, err)
	assert.Equal(t, "Moderate\n", out)

	_, err = run(t, "band", "11")
	assert.Error(t, err)

	_, err = run(t, "band", "high")
	assert.Error(t, err)
}
