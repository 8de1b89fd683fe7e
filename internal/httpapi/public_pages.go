package httpapi

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
)

var publicPageT = template.Must(template.New("public").Parse(publicLayout))

type publicPageData struct {
	Title string
	Body  template.HTML
}

// handleHome is the neutral landing page. Pages that refuse a visitor send them here.
func (a *api) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderPublicPage(w, http.StatusOK, "Speed Reader", publicHomeBody)
}

func (a *api) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	renderPublicPage(w, http.StatusOK, "Choose a new password", publicResetBody)
}

// ResetURL builds links to the reset page served by this router. A base that
// does not parse falls back to a root-relative link.
func ResetURL(base string) func(token string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	return func(token string) string {
		u, err := url.Parse(base + "/reset-password")
		if err != nil || base == "" {
			return "/reset-password?token=" + url.QueryEscape(token)
		}
		u.RawQuery = url.Values{"token": {token}}.Encode()
		return u.String()
	}
}

func renderPublicPage(w http.ResponseWriter, status int, title string, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = publicPageT.Execute(w, publicPageData{
		Title: title,
		Body:  body,
	})
}

const publicLayout = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      :root{--bg:#0f172a;--ink:#f8fafc;--muted:#94a3b8;--accent:#38bdf8;--card:#111c33;--line:#1e293b;color-scheme:dark}
      *{box-sizing:border-box}
      body{margin:0;font-family:"Helvetica Neue",Arial,sans-serif;background:var(--bg);color:var(--ink);min-height:100vh}
      main{max-width:640px;margin:0 auto;padding:64px 24px}
      h1{font-size:2rem;margin:0 0 12px}
      p{color:var(--muted);line-height:1.6}
      .card{background:var(--card);border:1px solid var(--line);border-radius:16px;padding:24px;margin-top:24px}
      label{display:block;margin:12px 0 6px;font-weight:600}
      input{width:100%;padding:10px 12px;border-radius:10px;border:1px solid var(--line);background:#0b1224;color:var(--ink)}
      button{margin-top:16px;padding:10px 18px;border:0;border-radius:10px;background:var(--accent);color:#0f172a;font-weight:700;cursor:pointer}
      .msg{margin-top:16px;min-height:1.5em}
    </style>
  </head>
  <body>
    <main>
      {{.Body}}
    </main>
  </body>
</html>`

const publicHomeBody template.HTML = `<h1>Speed Reader</h1>
<p>Train faster reading with RSVP, chunking, Schulte tables and more drills. Track every session and see how you rank.</p>
<div class="card">
  <p>New accounts are reviewed by an administrator before the first sign-in. Use the app to register or sign in.</p>
</div>`

const publicResetBody template.HTML = `<h1>Choose a new password</h1>
<p>Pick a password with at least six characters. The link in your email works once.</p>
<form class="card" id="reset">
  <label for="password">New password</label>
  <input id="password" name="password" type="password" minlength="6" autocomplete="new-password" required />
  <button type="submit">Save password</button>
  <div class="msg" id="msg" role="status"></div>
</form>
<script>
  (function(){
    var form=document.getElementById("reset");
    var msg=document.getElementById("msg");
    var token=new URLSearchParams(window.location.search).get("token")||"";
    form.addEventListener("submit",function(ev){
      ev.preventDefault();
      msg.textContent="Saving...";
      fetch("/v1/auth/password/reset",{
        method:"POST",
        headers:{"Content-Type":"application/json"},
        body:JSON.stringify({token:token,password:form.password.value})
      }).then(function(res){
        if(res.status===204){msg.textContent="Password updated. You can sign in now.";form.reset();return;}
        return res.json().then(function(body){msg.textContent=(body.error&&body.error.message)||"Something went wrong.";});
      }).catch(function(){msg.textContent="Network error.";});
    });
  })();
</script>`
