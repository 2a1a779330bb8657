package projections

import (
	"context"
	"html/template"
	"strings"

	"gymdesk/internal/adapters/markdown"
	"gymdesk/internal/domain/cleaning"
	"gymdesk/internal/domain/equipment"
)

// Note kinds served by the notes log.
const (
	NotesEquipment = "equipment"
	NotesCleaning  = "cleaning"
)

// EquipmentLister lists equipment units.
type EquipmentLister interface {
	List(ctx context.Context) ([]equipment.Unit, error)
}

// CleaningLister lists cleaning tasks.
type CleaningLister interface {
	List(ctx context.Context) ([]cleaning.Task, error)
}

// Note is one notes-log row.
type Note struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"`
	ItemName string        `json:"itemName"`
	Content  string        `json:"content"`
	HTML     template.HTML `json:"html"`
	Date     string        `json:"date"`
}

// NotesLogDeps holds dependencies for the notes log.
type NotesLogDeps struct {
	Equipment EquipmentLister
	Cleaning  CleaningLister
}

// QueryNotesLog lists the notes attached to equipment or cleaning tasks.
// An empty kind returns both, equipment first.
// POST: items without notes are skipped; search matches item name or content
func QueryNotesLog(ctx context.Context, kind, search string, deps NotesLogDeps) ([]Note, error) {
	var notes []Note
	if kind == "" || kind == NotesEquipment {
		units, err := deps.Equipment.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			notes = appendNote(notes, Note{ID: u.ID, Kind: NotesEquipment, ItemName: u.Name, Content: u.Notes, Date: u.LastMaintenance})
		}
	}
	if kind == "" || kind == NotesCleaning {
		tasks, err := deps.Cleaning.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			notes = appendNote(notes, Note{ID: t.ID, Kind: NotesCleaning, ItemName: t.Area, Content: t.Notes, Date: t.LastCleaned})
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if needle != "" &&
			!strings.Contains(strings.ToLower(n.ItemName), needle) &&
			!strings.Contains(strings.ToLower(n.Content), needle) {
			continue
		}
		html, err := markdown.ToHTML(n.Content)
		if err != nil {
			return nil, err
		}
		n.HTML = template.HTML(html)
		out = append(out, n)
	}
	return out, nil
}

func appendNote(notes []Note, n Note) []Note {
	if strings.TrimSpace(n.Content) == "" {
		return notes
	}
	return append(notes, n)
}
