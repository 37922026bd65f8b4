package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baiye-site/sitecontent/content"
	"github.com/baiye-site/sitecontent/validate"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, files map[string]string) (http.Handler, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0644))
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	router, err := SetupRouter(&Server{
		Fs:          fs,
		OutputDir:   "public/data",
		SourcesFile: "content/SOURCES.md",
		Log:         log,
	})
	require.NoError(t, err)
	return router, fs
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDataHandler(t *testing.T) {
	router, _ := newRouter(t, map[string]string{
		"public/data/members.json": "[]\n",
	})

	rec := get(router, "/data/members.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-cache")

	rec = get(router, "/data/home-page.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(router, "/data/Members.json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSitemapHandler(t *testing.T) {
	router, _ := newRouter(t, map[string]string{
		"public/data/siteconfig.json": `{"siteTitle": "Guild", "baseUrl": "https://guild.example.org/"}`,
	})

	rec := get(router, "/sitemap.xml")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://guild.example.org/join</loc>")

	router, _ = newRouter(t, map[string]string{
		"public/data/siteconfig.json": `{"siteTitle": "Guild"}`,
	})
	assert.Equal(t, http.StatusNotFound, get(router, "/sitemap.xml").Code)
}

func TestSitemapWithoutBaseURLLogsWarning(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "public/data/siteconfig.json", []byte(`{"siteTitle": "Guild"}`), 0644))

	log, hook := test.NewNullLogger()
	router, err := SetupRouter(&Server{Fs: fs, OutputDir: "public/data", Log: log})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(router, "/sitemap.xml").Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "baseUrl")
}

func TestSourcesHandler(t *testing.T) {
	router, _ := newRouter(t, map[string]string{
		"content/SOURCES.md": "# Sources\n\n- member bios from the forum\n",
	})

	rec := get(router, "/sources")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 id="sources">Sources</h1>`)
	assert.Contains(t, rec.Body.String(), "<li>member bios from the forum</li>")
}

func TestIndexHandler(t *testing.T) {
	router, fs := newRouter(t, map[string]string{
		"public/data/members.json":    "[]\n",
		"public/data/siteconfig.json": "{}\n",
		"public/data/.members.json.1": "partial",
	})

	rec := get(router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/data/members.json">members.json</a>`)
	assert.Contains(t, body, `<a href="/data/siteconfig.json">siteconfig.json</a>`)
	assert.NotContains(t, body, ".members.json.1")

	r, err := content.NewResolver(fs, "content", nil)
	require.NoError(t, err)
	srv := &Server{
		Fs:        fs,
		OutputDir: "public/data",
		Validator: &validate.Validator{Resolver: r, Fs: fs, AssetsDir: "public/assets/placeholders"},
	}
	withReport, err := SetupRouter(srv)
	require.NoError(t, err)

	body = get(withReport, "/").Body.String()
	assert.Contains(t, body, "Validation: fail")
	assert.Contains(t, body, `class="error"`)
}

func TestIndexWithoutOutput(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := get(router, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data files in")
}

func TestCustom404(t *testing.T) {
	router, _ := newRouter(t, nil)

	rec := get(router, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<code>/nowhere</code>")
	assert.Contains(t, rec.Body.String(), "<title>Not found | sitecontent</title>")
}

func TestAssets(t *testing.T) {
	router, _ := newRouter(t, map[string]string{
		"public/assets/placeholders/avatar-small.png": "png",
	})

	rec := get(router, "/assets/placeholders/avatar-small.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}
