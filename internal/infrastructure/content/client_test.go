package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineko/fineko-api/internal/core/domain"
)

func TestClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, generatePath, r.URL.Path)
		var req domain.ContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tasks", req.PageID)
		_, _ = w.Write([]byte(`{"title":"Tasks","description":"Plan your week","actions":["Create a task"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zerolog.Nop())
	resp, err := c.Generate(context.Background(), domain.ContentRequest{PageID: "tasks"})
	require.NoError(t, err)
	assert.Equal(t, "Tasks", resp.Title)
	assert.Equal(t, []string{"Create a task"}, resp.Actions)
}

func TestClient_Generate_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"title":"late"}`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewClient(srv.URL, 50*time.Millisecond, zerolog.Nop())
			_, err := c.Generate(context.Background(), domain.ContentRequest{PageID: "tasks"})
			assert.ErrorIs(t, err, domain.ErrUpstream)
		})
	}
}
