package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/router"
	"github.com/lushtech/eldercare-web/pkg/webapp"
	"github.com/lushtech/eldercare-web/server/mocks"
)

// findByID returns the first element with the given id
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parsePage(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestServer_homeView(t *testing.T) {
	srv := testServer(t, memStore(domain.SettingsDTO{Confidence: 0.87}), webapp.Options{Title: "Ward 3", Version: "1.2.3"})

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	doc := parsePage(t, w.Body.String())

	home := findByID(doc, "home")
	require.NotNil(t, home, "home view rendered")
	assert.Equal(t, "home", attr(home, "data-route"))

	require.NotNil(t, findByID(doc, "settings"), "settings component embedded in home")
	confidence := findByID(doc, "confidence")
	require.NotNil(t, confidence)
	assert.Equal(t, "0.87", attr(confidence, "value"))

	assert.Nil(t, findByID(doc, "banner"), "no banner configured")
	body := w.Body.String()
	assert.Contains(t, body, "<title>Ward 3</title>")
	assert.Contains(t, body, `href="/theme.css"`)
	assert.Contains(t, body, `action="/rest/example/settings"`)
	assert.Contains(t, body, `class="theme--light"`)
	assert.Contains(t, body, `data-iconfont="md"`)
	assert.Contains(t, body, "No frame received yet.")
	assert.Contains(t, body, "version 1.2.3")
}

func TestServer_homeViewWithBaseAndBanner(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()),
		webapp.Options{BaseURL: "/app/eldercare", Dark: true, Banner: "<b>maintenance</b>"})
	require.NoError(t, srv.SetImage(testImage()))

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/app/eldercare/", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	doc := parsePage(t, w.Body.String())
	banner := findByID(doc, "banner")
	require.NotNil(t, banner)
	require.NotNil(t, banner.FirstChild)
	assert.Equal(t, "b", banner.FirstChild.Data)

	body := w.Body.String()
	assert.Contains(t, body, `href="/app/eldercare/theme.css"`)
	assert.Contains(t, body, `action="/app/eldercare/rest/example/settings"`)
	assert.Contains(t, body, `src="/app/eldercare/rest/example/live"`)
	assert.Contains(t, body, `class="theme--dark"`)
	assert.Contains(t, body, `value="0.5"`)
}

func TestServer_unknownPathRendersHome(t *testing.T) {
	srv := testServer(t, memStore(domain.SettingsDTO{Confidence: 0.3}), webapp.Options{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	get := func(path string) (string, string) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.Request.URL.Path, string(body)
	}

	rootPath, root := get("/")
	finalPath, unknown := get("/unknown-path")
	assert.Equal(t, "/", rootPath)
	assert.Equal(t, "/", finalPath, "redirected to root")
	assert.Equal(t, root, unknown)
	assert.Contains(t, unknown, `data-route="home"`)
}

func TestServer_hashMode(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{Mode: router.Hash})

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/settings", http.NoBody))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestServer_renderView(t *testing.T) {
	t.Run("settings component is not a page", func(t *testing.T) {
		srv := testServer(t, memStore(domain.SettingsDTO{Confidence: 0.9}), webapp.Options{})
		require.NotNil(t, srv.templates.Lookup("settings-form"))

		w := httptest.NewRecorder()
		srv.renderView(w, httptest.NewRequest("GET", "/", http.NoBody), router.Route{Path: "/settings", View: "settings"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `unknown view \"settings\"`)
	})

	t.Run("settings component inside home", func(t *testing.T) {
		srv := testServer(t, memStore(domain.SettingsDTO{Confidence: 0.9}), webapp.Options{})
		w := httptest.NewRecorder()
		srv.renderView(w, httptest.NewRequest("GET", "/", http.NoBody), router.Route{Path: "/", Name: "home", View: "home"})
		require.Equal(t, http.StatusOK, w.Code)

		doc := parsePage(t, w.Body.String())
		assert.NotNil(t, findByID(doc, "home"))
		assert.Equal(t, "0.9", attr(findByID(doc, "confidence"), "value"))
	})

	t.Run("unknown view", func(t *testing.T) {
		srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})
		w := httptest.NewRecorder()
		srv.renderView(w, httptest.NewRequest("GET", "/", http.NoBody), router.Route{Path: "/", View: "missing"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `unknown view \"missing\"`)
	})

	t.Run("settings failure falls back to defaults", func(t *testing.T) {
		store := &mocks.SettingsStoreMock{
			ApplicationSettingsFunc: func(context.Context) (domain.SettingsDTO, error) {
				return domain.SettingsDTO{}, errors.New("db is gone")
			},
		}
		srv := testServer(t, store, webapp.Options{})
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "0.5", attr(findByID(parsePage(t, w.Body.String()), "confidence"), "value"))
	})
}

func TestServer_navigateHandlerOutsideBase(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{BaseURL: "/app/eldercare"})

	w := httptest.NewRecorder()
	srv.navigateHandler(w, httptest.NewRequest("GET", "/other/page", http.NoBody))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app/eldercare/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	srv.navigateHandler(w, httptest.NewRequest("GET", "/app/eldercare/missing", http.NoBody))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app/eldercare/", w.Header().Get("Location"))
}

func TestServer_themeCSSHandler(t *testing.T) {
	srv := testServer(t, memStore(domain.DefaultSettings()), webapp.Options{})

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest("GET", "/theme.css", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/css; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "--v-primary-base: #ff6a00;")
	assert.Contains(t, w.Body.String(), ".theme--dark {")
}
