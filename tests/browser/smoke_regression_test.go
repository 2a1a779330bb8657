package browser_test

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

// TestSmoke_RouteAccess loads every read route in a real browser and checks the status per viewer.
func TestSmoke_RouteAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	admin := app.signIn(t)
	if code := app.api(t, "POST", "/api/access/code", nil, admin, nil); code != http.StatusCreated {
		t.Fatalf("rotate access code: got %d", code)
	}

	routes := []struct {
		path       string
		signedIn   bool
		wantStatus int
	}{
		{path: "/api/navigation", wantStatus: 200},
		{path: "/api/auth/session", wantStatus: 200},
		{path: "/api/classes", wantStatus: 401},
		{path: "/api/access/qr.png", wantStatus: 401},

		{path: "/api/classes", signedIn: true, wantStatus: 200},
		{path: "/api/products", signedIn: true, wantStatus: 200},
		{path: "/api/cart", signedIn: true, wantStatus: 200},
		{path: "/api/dashboard", signedIn: true, wantStatus: 200},
		{path: "/api/sales/report?range=week", signedIn: true, wantStatus: 200},
		{path: "/api/notes-log", signedIn: true, wantStatus: 200},
		{path: "/api/access/log", signedIn: true, wantStatus: 200},
		{path: "/api/partner/config", signedIn: true, wantStatus: 200},
		{path: "/admin/outbox", signedIn: true, wantStatus: 200},
		{path: "/admin/perf", signedIn: true, wantStatus: 503},
	}

	for _, route := range routes {
		t.Run(fmt.Sprintf("%s_signed_in_%v", route.path, route.signedIn), func(t *testing.T) {
			var session *http.Cookie
			if route.signedIn {
				session = admin
			}
			page := app.newPage(t, session)
			resp, err := page.Goto(app.BaseURL + route.path)
			if err != nil {
				t.Fatalf("navigate to %s: %v", route.path, err)
			}
			if resp.Status() != route.wantStatus {
				t.Errorf("%s: got status %d, want %d", route.path, resp.Status(), route.wantStatus)
			}
			if csp := resp.Headers()["content-security-policy"]; csp == "" {
				t.Errorf("%s: missing Content-Security-Policy", route.path)
			}
		})
	}
}

// TestSmoke_AccessQRCode renders the member's door code in the browser.
func TestSmoke_AccessQRCode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	admin := app.signIn(t)
	var cred struct {
		Code string `json:"code"`
	}
	if code := app.api(t, "POST", "/api/access/code", nil, admin, &cred); code != http.StatusCreated {
		t.Fatalf("rotate access code: got %d", code)
	}

	page := app.newPage(t, admin)
	resp, err := page.Goto(app.BaseURL + "/api/access/qr.png?size=256")
	if err != nil {
		t.Fatalf("navigate to qr: %v", err)
	}
	if resp.Status() != http.StatusOK {
		t.Fatalf("qr: got status %d", resp.Status())
	}
	if ct := resp.Headers()["content-type"]; ct != "image/png" {
		t.Errorf("qr content type = %q", ct)
	}
	body, err := resp.Body()
	if err != nil {
		t.Fatalf("qr body: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("qr body is not a PNG")
	}

	var verdict struct {
		Result string `json:"result"`
	}
	app.api(t, "POST", "/api/access/verify", map[string]string{"code": cred.Code}, nil, &verdict)
	if verdict.Result != "granted" {
		t.Errorf("verify current code: got %q", verdict.Result)
	}
}

// TestSmoke_CheckoutFromSeededCatalog sells a seeded product end to end and downloads the CSV in the browser.
func TestSmoke_CheckoutFromSeededCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	admin := app.signIn(t)

	var products struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	app.api(t, "GET", "/api/products", nil, admin, &products)
	if len(products.Items) == 0 {
		t.Fatal("catalog was not seeded")
	}
	if code := app.api(t, "POST", "/api/cart", map[string]string{"productId": products.Items[0].ID}, admin, nil); code != http.StatusOK {
		t.Fatalf("add to cart: got %d", code)
	}
	if code := app.api(t, "POST", "/api/checkout", map[string]string{"paymentMethod": "cash"}, admin, nil); code != http.StatusCreated {
		t.Fatalf("checkout: got %d", code)
	}

	page := app.newPage(t, admin)
	if _, err := page.Goto(app.BaseURL + "/api/navigation"); err != nil {
		t.Fatalf("open page: %v", err)
	}
	download, err := page.ExpectDownload(func() error {
		_, err := page.Evaluate(`() => { const a = document.createElement('a'); a.href = '/api/sales/export.csv?range=day'; document.body.appendChild(a); a.click(); }`)
		return err
	})
	if err != nil {
		t.Fatalf("download export: %v", err)
	}
	if name := download.SuggestedFilename(); !strings.HasPrefix(name, "sales_report_day_") {
		t.Errorf("export filename = %q", name)
	}
}
