package service

import (
	"strings"
	"text/template"

	"github.com/mvanek/accountd/internal/domain"
)

// mail is a rendered notification ready for the Notifier.
type mail struct {
	subject string
	body    string
}

var (
	activationTmpl = template.Must(template.New("activation").Parse(
		`Hello {{.Name}},

Welcome! Please confirm your email address by opening the link below:

{{.URL}}

The link is valid for a limited time and can be used once. If you did not
create this account, you can ignore this message.
`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`Hello {{.Name}},

A password reset was requested for your account. To choose a new password,
open the link below:

{{.URL}}

The link is valid for a limited time and can be used once. If you did not
request a reset, you can ignore this message; your password is unchanged.
`))

	passwordChangedTmpl = template.Must(template.New("changed").Parse(
		`Hello {{.Name}},

The password for your account was just changed. If this was you, no action
is needed. If it was not, contact support immediately.
`))
)

type mailData struct {
	Name string
	URL  string
}

func activationMail(user *domain.User, url string) mail {
	return mail{
		subject: "Activate your account",
		body:    render(activationTmpl, mailData{Name: user.DisplayName(), URL: url}),
	}
}

func resetMail(user *domain.User, url string) mail {
	return mail{
		subject: "Reset your password",
		body:    render(resetTmpl, mailData{Name: user.DisplayName(), URL: url}),
	}
}

func passwordChangedMail(user *domain.User) mail {
	return mail{
		subject: "Your password was changed",
		body:    render(passwordChangedTmpl, mailData{Name: user.DisplayName()}),
	}
}

func render(tmpl *template.Template, data mailData) string {
	var sb strings.Builder
	// The templates only reference fields that exist; execution cannot fail.
	_ = tmpl.Execute(&sb, data)
	return sb.String()
}
