package browser_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/app"
	"gymdesk/internal/application/orchestrators"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"
)

// testApp is a seeded desk served on a loopback port plus a headless Chromium.
type testApp struct {
	BaseURL string
	Deps    web.Deps
	Browser playwright.Browser
}

// newTestApp boots the whole desk over a throwaway SQLite file.
// POST: the admin account and the product catalogue exist; everything stops at test cleanup
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	require.NoError(t, storage.MigrateDB(db))
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps := app.Wire(db, app.Options{})
	require.NoError(t, orchestrators.ExecuteSeedAdmin(ctx, deps.Accounts, adminEmail, adminPassword))
	_, err = orchestrators.ExecuteSeedCatalog(ctx, deps.ProductStore)
	require.NoError(t, err)

	baseURL := serve(t, ctx, deps)
	return &testApp{BaseURL: baseURL, Deps: deps, Browser: launchChromium(t)}
}

// serve starts the desk mux on 127.0.0.1 and waits until it answers.
func serve(t *testing.T, ctx context.Context, deps web.Deps) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)

	srv := &http.Server{Handler: web.NewMux(ctx, deps, web.Options{
		CSRFKey:        key,
		TrustedOrigins: []string{fmt.Sprintf("127.0.0.1:%d", port), fmt.Sprintf("localhost:%d", port)},
	})}
	go func() {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			t.Logf("desk server stopped: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/api/navigation")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond, "desk server never answered")
	return baseURL
}

func launchChromium(t *testing.T) playwright.Browser {
	t.Helper()
	pw, err := playwright.Run()
	require.NoError(t, err, "start playwright")
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	require.NoError(t, err, "launch chromium")
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})
	return browser
}

// api calls the JSON API directly, outside the browser. out may be nil.
func (a *testApp) api(t *testing.T, method, path string, body any, session *http.Cookie, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.BaseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "%s %s", method, path)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "decode %s %s", method, path)
	}
	return resp.StatusCode
}

// signIn returns the seeded admin's session cookie.
func (a *testApp) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	creds, err := json.Marshal(map[string]string{"email": adminEmail, "password": adminPassword})
	require.NoError(t, err)
	resp, err := http.Post(a.BaseURL+"/api/auth/signin", "application/json", bytes.NewReader(creds))
	require.NoError(t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("sign in answered %d without a session cookie", resp.StatusCode)
	return nil
}

// newPage opens a tab in a fresh browser context, carrying session when non-nil.
func (a *testApp) newPage(t *testing.T, session *http.Cookie) playwright.Page {
	t.Helper()
	bctx, err := a.Browser.NewContext()
	require.NoError(t, err)
	t.Cleanup(func() { bctx.Close() })

	if session != nil {
		require.NoError(t, bctx.AddCookies([]playwright.OptionalCookie{{
			Name:  session.Name,
			Value: session.Value,
			URL:   playwright.String(a.BaseURL),
		}}))
	}
	page, err := bctx.NewPage()
	require.NoError(t, err)
	return page
}
