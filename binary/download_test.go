package binary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Length", "12")
				w.Write([]byte("archive-body"))
			},
		),
	)
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "sstart.tar.gz")

	err := download(context.Background(), server.URL+"/sstart.tar.gz", destination)
	require.NoError(t, err)

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "archive-body", string(data))
}

func TestDownloadFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("final-body"))
	})
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		// relative Location, resolved against the redirecting URL
		w.Header().Set("Location", "/final")
		w.WriteHeader(http.StatusFound)
		w.Write([]byte("redirect-body"))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "sstart.tar.gz")

	err := download(context.Background(), server.URL+"/start", destination)
	require.NoError(t, err)

	// the final response body must end up on disk, not the redirect's
	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t, "final-body", string(data))
}

func TestDownloadRedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscanf(r.URL.Path, "/hop/%d", &n)
		if n == 0 {
			w.Write([]byte("done"))
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", n-1), http.StatusMovedPermanently)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("chains within the limit succeed", func(t *testing.T) {
		destination := filepath.Join(t.TempDir(), "out")

		err := download(context.Background(), server.URL+"/hop/10", destination)
		require.NoError(t, err)

		data, err := os.ReadFile(destination)
		require.NoError(t, err)
		assert.Equal(t, "done", string(data))
	})

	t.Run("chains past the limit fail distinctly", func(t *testing.T) {
		destination := filepath.Join(t.TempDir(), "out")

		err := download(context.Background(), server.URL+"/hop/11", destination)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooManyRedirects)
		assert.NoFileExists(t, destination)
	})
}

func TestDownloadErrorStatus(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		),
	)
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "out")

	err := download(context.Background(), server.URL+"/missing", destination)
	require.Error(t, err)

	var dlerr *DownloadError
	require.ErrorAs(t, err, &dlerr)
	assert.Equal(t, http.StatusNotFound, dlerr.Status)
	assert.NoFileExists(t, destination)
}
