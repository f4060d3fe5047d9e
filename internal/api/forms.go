package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// formPages holds one parsed template set per page, each combining the
// shared layout with that page's "form" block.
var formPages = map[string]*template.Template{
	"register": template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/register.html")),
	"login":    template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")),
}

type formPage struct {
	Title  string
	Action string
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, "register", formPage{Title: "Register", Action: "/register"})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, "login", formPage{Title: "Log in", Action: "/login"})
}

// renderForm executes into a buffer first so a template error still yields
// a clean 500 instead of a half-written page.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, name string, page formPage) {
	var buf bytes.Buffer
	if err := formPages[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		s.logger.Error("rendering form", "form", name, "path", r.URL.Path, "error", err)
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(buf.Bytes())
}
