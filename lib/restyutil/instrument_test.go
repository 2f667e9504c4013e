package restyutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("x-page", "teams")
		w.Write([]byte("<html>teams</html>"))
	}))
	defer server.Close()

	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer provider.Shutdown(context.Background())

	output := &memoryOutput{}
	client := resty.New()
	InstrumentClient(client, provider.Tracer("test"), output)

	_, err := client.R().Get(server.URL + "/nba/teams")
	require.NoError(t, err)
	_, err = client.R().Get(server.URL + "/missing")
	require.NoError(t, err)

	require.Len(t, output.messages, 2)
	require.Contains(t, output.messages["1"], "GET "+server.URL+"/nba/teams")
	require.Contains(t, output.messages["1"], "X-Page: teams")
	require.Contains(t, output.messages["1"], "<html>teams</html>")
	require.Contains(t, output.messages["2"], "404 ")

	ended := spans.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "http GET", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, codes.Error, ended[1].Status().Code)
}

func TestInstrumentClientTransportError(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer provider.Shutdown(context.Background())

	client := resty.New()
	InstrumentClient(client, provider.Tracer("test"), nil)

	_, err := client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exchanges")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	output.Write("1", "hello")
	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
