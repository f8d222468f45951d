package http

import (
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/seeder/legie-metadata/internal/config"
	"github.com/seeder/legie-metadata/internal/covercache"
	"github.com/seeder/legie-metadata/internal/legie"
	"github.com/seeder/legie-metadata/internal/prefs"
	"github.com/seeder/legie-metadata/internal/transport"
)

const searchResultsHTML = `<!DOCTYPE html>
<html><body>
<table class="tabulka-s-okraji">
  <tr><th>Autor/Autoři díla</th><th>Název</th></tr>
  <tr>
    <td><a href="autor/12">Terry Pratchett</a></td>
    <td><a href="kniha/103">Čaroprávnost</a></td>
  </tr>
</table>
</body></html>`

const bookDetailHTML = `<!DOCTYPE html>
<html><body>
<div>
  <h3><a href="autor/12">Terry Pratchett</a></h3>
  <div id="pro_obal"><img id="hlavni_obalka" src="covers/103.jpg"></div>
</div>
<h2 id="nazev_knihy">Čaroprávnost</h2>
<div id="procenta"><span>85</span></div>
</body></html>`

func newTestApp(t *testing.T) (*fiber.App, *covercache.Store) {
	t.Helper()

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/index.php", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte(searchResultsHTML))
	})
	mux.HandleFunc("/kniha/103", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = w.Write([]byte(bookDetailHTML))
	})
	catalog := httptest.NewServer(mux)
	t.Cleanup(catalog.Close)

	covers, err := covercache.Open(filepath.Join(t.TempDir(), "covers.sqlite"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = covers.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := transport.NewClientWithHTTP(catalog.Client(), logger)
	resolver := legie.NewResolver(catalog.URL, client, prefs.Default(), logger).WithCoverCache(covers)

	return NewServer(config.Config{AppName: "legie-metadata-test"}, resolver, covers), covers
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	res, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusOK {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["cache"] != "up" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestResolveEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/v1/resolve",
		strings.NewReader(`{"title":"Čaroprávnost","authors":["Terry Pratchett"]}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusOK {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}

	var body struct {
		Items []struct {
			Title       string            `json:"title"`
			Identifiers map[string]string `json:"identifiers"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(body.Items))
	}
	if body.Items[0].Title != "Čaroprávnost" {
		t.Fatalf("unexpected title: %q", body.Items[0].Title)
	}
	if body.Items[0].Identifiers["legie"] != "103" {
		t.Fatalf("unexpected identifiers: %v", body.Items[0].Identifiers)
	}
}

func TestResolveEndpointEmptyQuery(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/v1/resolve", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestResolveEndpointNoResults(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/v1/resolve",
		strings.NewReader(`{"title":"Neexistující kniha","authors":["Nikdo"]}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCoverEndpoints(t *testing.T) {
	app, covers := newTestApp(t)
	if err := covers.CacheCover("103", []string{"https://www.legie.info/covers/103-1996.jpg"}); err != nil {
		t.Fatalf("seed cover: %v", err)
	}
	if err := covers.CacheISBN("8071971138", "103"); err != nil {
		t.Fatalf("seed isbn: %v", err)
	}

	res, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/v1/covers/103", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusOK {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}

	res, err = app.Test(httptest.NewRequest(nethttp.MethodGet, "/v1/covers/isbn/8071971138", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusOK {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}
	var body struct {
		Identifier string   `json:"identifier"`
		URLs       []string `json:"urls"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Identifier != "103" || len(body.URLs) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}

	res, err = app.Test(httptest.NewRequest(nethttp.MethodGet, "/v1/covers/isbn/0000000000", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != nethttp.StatusNotFound {
		t.Fatalf("expected 404 for unknown isbn, got %d", res.StatusCode)
	}
}
