package email

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/yuin/goldmark"
)

const invitationTemplate = `Hello,

**{{md .InviterName}}** invited you to the board **{{md .BoardName}}** as *{{.Role}}*.

[Click here to accept the invitation]({{.Link}})

The link is valid for {{.ExpiresInHours}} hours. If you did not expect this email, please ignore it.
`

// InviteRenderer turns an invitation into a sanitized HTML mail body.
type InviteRenderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewInviteRenderer() *InviteRenderer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	return &InviteRenderer{
		tmpl:   template.Must(template.New("invitation").Funcs(template.FuncMap{"md": escapeMarkdown}).Parse(invitationTemplate)),
		md:     goldmark.New(),
		policy: policy,
	}
}

func (r *InviteRenderer) Subject(boardId domain.BoardId) string {
	return fmt.Sprintf("potatoland: you are currently invited to board no.%d", boardId)
}

func (r *InviteRenderer) Render(mail domain.InvitationMail) (string, error) {
	if mail.InviterName == "" {
		mail.InviterName = "A board member"
	}

	var source bytes.Buffer
	if err := r.tmpl.Execute(&source, mail); err != nil {
		return "", fmt.Errorf("render invitation template: %w", err)
	}

	var html bytes.Buffer
	if err := r.md.Convert(source.Bytes(), &html); err != nil {
		return "", fmt.Errorf("convert invitation markdown: %w", err)
	}

	return strings.TrimSpace(r.policy.Sanitize(html.String())), nil
}

// escapeMarkdown makes user text render literally: every ASCII punctuation
// character is backslash-escaped and line breaks are folded into spaces.
func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
