package email

import (
	"errors"
	"fmt"
	"strings"

	"gymdesk/internal/domain/sale"
)

// Kind constants identify what a message is for.
const (
	KindReceipt = "receipt"
	KindWelcome = "welcome"
)

// Domain errors
var (
	ErrEmptySubject = errors.New("email subject is required")
	ErrEmptyBody    = errors.New("email body is required")
	ErrNoRecipient  = errors.New("a recipient with '@' is required")
)

// Message is a transactional email composed as markdown.
// The markdown is rendered to HTML by the sending side.
type Message struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Markdown string `json:"markdown"`
}

// Validate checks that the Message can be sent.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if !strings.Contains(m.To, "@") {
		return ErrNoRecipient
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	if strings.TrimSpace(m.Markdown) == "" {
		return ErrEmptyBody
	}
	return nil
}

// Receipt composes the receipt for a completed sale.
func Receipt(to string, s sale.Sale) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "# Thanks for your purchase\n\n")
	fmt.Fprintf(&b, "Transaction `%s` on %s, paid by %s.\n\n", s.ID, s.Timestamp.Format("2 Jan 2006 15:04"), s.PaymentMethod)
	b.WriteString("| Item | Qty | Price | Subtotal |\n|---|---:|---:|---:|\n")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", escapeCell(it.ProductName), it.Quantity, it.UnitPrice.StringFixed(2), it.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n**Total:** %s  \n**Tax included:** %s\n", s.Total.StringFixed(2), s.TaxAmount.StringFixed(2))
	return Message{
		Kind:     KindReceipt,
		To:       to,
		Subject:  "Your gym receipt " + shortID(s.ID),
		Markdown: b.String(),
	}
}

// Welcome composes the message sent after sign-up.
func Welcome(to, firstName string) Message {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return Message{
		Kind:    KindWelcome,
		To:      to,
		Subject: "Welcome to the gym",
		Markdown: fmt.Sprintf("# Welcome, %s\n\nYour account is ready. "+
			"Sign in to browse classes and see your purchases.\n", escapeInline(name)),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}

func escapeInline(s string) string {
	r := strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "\n", " ")
	return r.Replace(s)
}
