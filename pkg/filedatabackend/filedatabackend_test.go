package filedatabackend

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorittki/httprof/pkg/databackend"
)

func TestFileDataBackend(t *testing.T) {
	dir, err := ioutil.TempDir("", "filedatabackend")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "results.json")

	b, err := New(path)
	require.NoError(t, err)

	require.NoError(t, b.Store(&databackend.Result{
		URL:            "http://example.org/",
		HTTPStatusCode: 200,
		BodySize:       5,
		Elapsed:        10 * time.Millisecond,
	}))
	require.NoError(t, b.Store(&databackend.Result{
		URL:           "http://example.org/",
		FailurePhase:  "connect",
		FailureDetail: "no candidate was reachable",
	}))
	require.NoError(t, b.Close())

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var first databackend.Result
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, 200, first.HTTPStatusCode)
	assert.Equal(t, uint64(5), first.BodySize)

	var second databackend.Result
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "connect", second.FailurePhase)
}

func TestFileDataBackend_Append(t *testing.T) {
	dir, err := ioutil.TempDir("", "filedatabackend")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "results.json")

	for i := 0; i < 2; i++ {
		b, err := New(path)
		require.NoError(t, err)
		require.NoError(t, b.Store(&databackend.Result{URL: "http://example.org/"}))
		require.NoError(t, b.Close())
	}

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), 2)
}
