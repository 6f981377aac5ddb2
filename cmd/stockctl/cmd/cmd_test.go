package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	finnhub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stock/profile2":
			w.Write([]byte(`{"ticker":"MSFT","name":"Microsoft Corp","exchange":"NASDAQ"}`))
		case "/quote":
			w.Write([]byte(`{"c":80.25,"d":1,"dp":1.26,"h":81,"l":79,"o":79.5,"pc":79.25,"t":1704067200}`))
		}
	}))
	t.Cleanup(finnhub.Close)

	dir := t.TempDir()
	t.Setenv("FINNHUB_TOKEN", "tok")
	t.Setenv("FINNHUB_BASE_URL", finnhub.URL)
	t.Setenv("ORDER_STORE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "orders.db"))
	t.Setenv("QUOTE_CACHE", "none")
	t.Setenv("LOG_FILE_ENABLED", "false")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestQuoteCmd(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "quote", "msft")
	require.NoError(t, err)
	assert.Contains(t, out, "80.25")
	assert.Contains(t, out, "Prev close")

	out, err = run(t, "quote", "MSFT", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"c": 80.25`)
}

func TestProfileCmd(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "profile", "MSFT")
	require.NoError(t, err)
	assert.Contains(t, out, "Microsoft Corp")
	assert.Contains(t, out, "NASDAQ")
}

func TestQuoteCmd_RequiresSymbol(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "quote")
	assert.Error(t, err)
}

func TestOrdersCmds(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")

	_, err = run(t, "orders", "list", "--side", "hold")
	assert.Error(t, err)

	pdfPath := filepath.Join(dir, "out.pdf")
	out, err = run(t, "orders", "export", "-o", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 0 orders")

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
