package acceptance

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	output, err := smoothie(t, t.TempDir(), "version")
	require.NoError(t, err, output)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &info), output)
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "gitCommit")
}

func TestVersionCommandHelp(t *testing.T) {
	output, err := smoothie(t, t.TempDir(), "version", "--help")
	require.NoError(t, err, output)
	assert.Contains(t, strings.ToLower(output), "usage")
}
