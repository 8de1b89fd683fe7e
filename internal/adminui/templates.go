package adminui

import (
	"fmt"
	"html/template"
	"net/http"

	"SpeedReaderwebserver/internal/domain"
)

type templates struct {
	login    *template.Template
	accounts *template.Template
	errorT   *template.Template
}

type pageData struct {
	Title  string
	Error  string
	Notice string
	Admin  domain.Identity

	Email string

	Query     string
	Accounts  []accountRow
	ResetLink string
	ResetFor  string
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		t, err := template.New("base").ParseFS(assets, files...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	login, err := parse("templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	accounts, err := parse("templates/layout.html", "templates/accounts.html")
	if err != nil {
		return nil, fmt.Errorf("parse accounts: %w", err)
	}
	errorT, err := parse("templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{login: login, accounts: accounts, errorT: errorT}, nil
}

func render(w http.ResponseWriter, t *template.Template, name string, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, name, data)
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data pageData) {
	render(w, t.login, "login.html", status, data)
}

func (t *templates) renderAccounts(w http.ResponseWriter, status int, data pageData) {
	render(w, t.accounts, "accounts.html", status, data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, admin domain.Identity, title, msg string) {
	render(w, t.errorT, "error.html", status, pageData{Title: title, Error: msg, Admin: admin})
}
