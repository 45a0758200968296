package handler

import (
	"html/template"
	"net/http"

	"laptoploan/pkg/locale"

	"github.com/julienschmidt/httprouter"
)

// Landing pages after a successful login from the browser forms.
const (
	userHomePath  = "/api/v1/borrow"
	adminHomePath = "/api/v1/admin/reservations"
)

type loginField struct {
	Name  string
	Label string
	Type  string
}

type loginPage struct {
	Lang   string
	Title  string
	Action string
	Next   string
	Button string
	Fields []loginField
}

// The form posts JSON so it passes the same content type check as API clients.
var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<form id="login" data-action="{{.Action}}" data-next="{{.Next}}">
{{range .Fields}}<label>{{.Label}} <input name="{{.Name}}" type="{{.Type}}" required></label>
{{end}}<button type="submit">{{.Button}}</button>
</form>
<p id="error" role="alert"></p>
<script>
document.getElementById("login").addEventListener("submit", async (e) => {
  e.preventDefault();
  const form = e.target;
  const res = await fetch(form.dataset.action, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(Object.fromEntries(new FormData(form))),
  });
  if (res.ok) { window.location.assign(form.dataset.next); return; }
  const body = await res.json().catch(() => ({}));
  document.getElementById("error").textContent = body.error || res.statusText;
});
</script>
</body>
</html>
`))

func (h *UserHandler) LoginPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tag := locale.FromContext(r.Context())
	h.renderLogin(w, "LoginPage", loginPage{
		Lang:   tag.String(),
		Title:  locale.Translate(tag, locale.KeyLoginPageTitle),
		Action: "/api/v1/login",
		Next:   userHomePath,
		Button: locale.Translate(tag, locale.KeyLoginButton),
		Fields: []loginField{
			{Name: "name", Label: locale.Translate(tag, locale.KeyLabelName), Type: "text"},
			{Name: "student_id", Label: locale.Translate(tag, locale.KeyLabelStudentID), Type: "text"},
		},
	})
}

func (h *UserHandler) AdminLoginPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tag := locale.FromContext(r.Context())
	h.renderLogin(w, "AdminLoginPage", loginPage{
		Lang:   tag.String(),
		Title:  locale.Translate(tag, locale.KeyAdminLoginPageTitle),
		Action: "/api/v1/admin/login",
		Next:   adminHomePath,
		Button: locale.Translate(tag, locale.KeyLoginButton),
		Fields: []loginField{
			{Name: "username", Label: locale.Translate(tag, locale.KeyLabelUsername), Type: "text"},
			{Name: "password", Label: locale.Translate(tag, locale.KeyLabelPassword), Type: "password"},
		},
	})
}

func (h *UserHandler) renderLogin(w http.ResponseWriter, name string, page loginPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := loginTemplate.Execute(w, page); err != nil {
		h.log.Error("failed to render login page", "handler", name, "operation", "Execute", "error", err)
	}
}

