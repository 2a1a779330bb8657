package web

import (
	"bytes"
	"net/http"
	"time"

	"gymdesk/internal/application/cart"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/sale"
)

// dateLayout is how the sales filters take dates.
const dateLayout = "2006-01-02"

type cartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// cartOwner keys carts by account so every signed-in desk user has their own.
func cartOwner(r *http.Request) string {
	return currentSession(r).AccountID
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cart.ViewOf(s.deps.Carts.Get(cartOwner(r))))
}

// handleAddToCart adds one unit of productId.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var in cartLine
	if err := strictDecode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	if in.ProductID == "" {
		writeError(w, badRequest("productId is required"))
		return
	}
	p, err := s.deps.Products.Get(r.Context(), in.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := s.deps.Carts.Update(cartOwner(r), func(c *sale.Cart) error { return c.AddLine(p) })
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.ViewOf(c))
}

// handleSetCartQuantity replaces a line's quantity; zero or less removes it.
func (s *Server) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var in cartLine
	if err := strictDecode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.deps.Carts.Update(cartOwner(r), func(c *sale.Cart) error {
		c.SetQuantity(in.ProductID, in.Quantity)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart.ViewOf(c))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.deps.Carts.Clear(cartOwner(r))
	w.WriteHeader(http.StatusNoContent)
}

// handleCheckout turns the caller's cart into a sale and emails them a receipt.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CheckoutInput
	if err := s.decodeInput(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess := currentSession(r)
	in.Owner, in.AccountID, in.ReceiptTo = sess.AccountID, sess.AccountID, sess.Email

	res, err := orchestrators.ExecuteCheckout(r.Context(), in, orchestrators.CheckoutDeps{
		Carts:    s.deps.Carts,
		Products: s.deps.ProductStore,
		Sales:    s.deps.Sales,
		Mail:     s.deps.Mail,
		Now:      s.deps.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleSalesHistory serves ?q=&from=&to=&sort=date|amount&dir=asc|desc, paginated.
// from and to are days; to is inclusive.
func (s *Server) handleSalesHistory(w http.ResponseWriter, r *http.Request) {
	var q projections.SalesHistoryQuery
	if err := s.decodeQuery(r, &q); err != nil {
		writeError(w, err)
		return
	}
	params := r.URL.Query()
	if v := params.Get("from"); v != "" {
		from, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			writeError(w, badRequest("from must be YYYY-MM-DD"))
			return
		}
		q.From = from
	}
	if v := params.Get("to"); v != "" {
		to, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			writeError(w, badRequest("to must be YYYY-MM-DD"))
			return
		}
		q.To = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	list, err := projections.QuerySalesHistory(r.Context(), q, s.deps.Sales)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listutil.Paginate(list, listutil.ParsePageParams(params)))
}

// handleSalesReport serves ?range=day|week|month|quarter|year|all.
func (s *Server) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	rng := projections.ParseRange(r.URL.Query().Get("range"))
	report, err := projections.QuerySalesReport(r.Context(), rng, s.now(), s.deps.Sales)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleSalesExport streams the sales in ?range= as a CSV attachment.
func (s *Server) handleSalesExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	rng := projections.ParseRange(r.URL.Query().Get("range"))
	list, err := projections.SalesInRange(r.Context(), s.deps.Sales, rng, now)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := projections.WriteSalesCSV(&buf, list, time.UTC); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+projections.ExportFilename(rng, now)+`"`)
	w.Write(buf.Bytes())
}
