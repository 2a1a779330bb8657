package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"gymdesk/internal/application/collection"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/class"
)

// maxImageBytes caps product image uploads.
const maxImageBytes = 8 << 20

// allItems adapts a Manager to the plain List(ctx) shape projections use.
type allItems[T any, P collection.Ptr[T]] struct {
	m *collection.Manager[T, P]
}

func (a allItems[T, P]) List(ctx context.Context) ([]T, error) {
	return a.m.List(ctx, collection.Criteria{})
}

func all[T any, P collection.Ptr[T]](m *collection.Manager[T, P]) allItems[T, P] {
	return allItems[T, P]{m: m}
}

// listCriteria reads q, status and when from the query.
func (s *Server) listCriteria(r *http.Request) (collection.Criteria, error) {
	var c collection.Criteria
	if err := s.decodeQuery(r, &c); err != nil {
		return c, err
	}
	c.Bucket = collection.ParseBucket(string(c.Bucket))
	return c, nil
}

// listItems serves GET: filtered by q/status/when, paginated by page/per_page.
func listItems[T any, P collection.Ptr[T]](m *collection.Manager[T, P], s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.listCriteria(r)
		if err != nil {
			writeError(w, err)
			return
		}
		items, err := m.List(r.Context(), c)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listutil.Paginate(items, listutil.ParsePageParams(r.URL.Query())))
	}
}

// addItem serves POST: the body is a new item; any id in it is replaced.
func addItem[T any, P collection.Ptr[T]](m *collection.Manager[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := strictDecode(w, r, &item); err != nil {
			writeError(w, err)
			return
		}
		created, err := m.Add(r.Context(), item)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// updateItem serves PUT ?id=: the body is merged into the stored item.
func updateItem[T any, P collection.Ptr[T]](m *collection.Manager[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := requiredID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var patch json.RawMessage
		if err := strictDecode(w, r, &patch); err != nil {
			writeError(w, err)
			return
		}
		updated, err := m.Update(r.Context(), id, patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// removeItem serves DELETE ?id=. Missing ids still return 204.
func removeItem[T any, P collection.Ptr[T]](m *collection.Manager[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := requiredID(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := m.Remove(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statusChange struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// setItemStatus serves POST {id, status}.
func setItemStatus[T any, P collection.Ptr[T]](m *collection.Manager[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in statusChange
		if err := strictDecode(w, r, &in); err != nil {
			writeError(w, err)
			return
		}
		if in.ID == "" {
			writeError(w, badRequest("id is required"))
			return
		}
		updated, err := m.SetStatus(r.Context(), in.ID, in.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// handleListClasses lists classes with partner bookings merged into the counts.
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	c, err := s.listCriteria(r)
	if err != nil {
		writeError(w, err)
		return
	}
	classes, err := s.deps.Classes.List(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	views := projections.QueryClassViews(r.Context(), classes, s.deps.Partner)
	writeJSON(w, http.StatusOK, listutil.Paginate(views, listutil.ParsePageParams(r.URL.Query())))
}

// handleCreateClass runs the two-phase create. ?skipPartner=true keeps it local.
func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var c class.Class
	if err := strictDecode(w, r, &c); err != nil {
		writeError(w, err)
		return
	}
	skip, _ := strconv.ParseBool(r.URL.Query().Get("skipPartner"))
	res, err := orchestrators.ExecuteCreateClass(r.Context(), orchestrators.CreateClassInput{Class: c, SkipPartner: skip}, orchestrators.CreateClassDeps{
		Classes: s.deps.Classes,
		Partner: s.deps.Partner,
		Outbox:  s.deps.Outbox,
		Now:     s.deps.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleSyncBookings(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteSyncBookings(r.Context(), all(s.deps.Classes), s.deps.Partner)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleProductImage accepts a multipart upload: field "id" and file "image".
func (s *Server) handleProductImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, badRequest("invalid upload: %v", err))
		return
	}
	id := r.FormValue("id")
	if id == "" {
		writeError(w, badRequest("id is required"))
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, badRequest("image file is required"))
		return
	}
	defer file.Close()

	p, err := orchestrators.ExecuteAttachProductImage(r.Context(), id, file, s.deps.Images, s.deps.ProductStore)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleNotesLog serves ?kind=equipment|cleaning&q=.
func (s *Server) handleNotesLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	notes, err := projections.QueryNotesLog(r.Context(), q.Get("kind"), q.Get("q"), projections.NotesLogDeps{
		Equipment: all(s.deps.Equipment),
		Cleaning:  all(s.deps.Cleaning),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listutil.Paginate(notes, listutil.ParsePageParams(q)))
}
