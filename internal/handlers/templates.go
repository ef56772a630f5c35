package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// Pages are deliberately plain: the rendering here is plumbing, the
// interesting part is which notice shows up where.

const listingHTML = `<!DOCTYPE html>
<html>
<head><title>Students</title></head>
<body>
<p>Signed in as <b>{{.Username}}</b> &middot; <a href="/logout">logout</a></p>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<table border="1">
<tr><th>ID</th><th>Name</th><th>Age</th><th>Grade</th><th></th><th></th></tr>
{{range .Students}}
<tr>
<td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Age}}</td><td>{{.Grade}}</td>
<td><a href="/edit/{{.ID}}">edit</a></td>
<td><a href="/delete/{{.ID}}">delete</a></td>
</tr>
{{end}}
</table>
<h3>Add student</h3>
<form method="post" action="/add">
<input name="name" placeholder="Name">
<input name="age" placeholder="Age">
<input name="grade" placeholder="Grade">
<button type="submit">Add</button>
</form>
</body>
</html>`

const editHTML = `<!DOCTYPE html>
<html>
<head><title>Edit student</title></head>
<body>
<p>Signed in as <b>{{.Username}}</b> &middot; <a href="/">back to list</a></p>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<h3>Edit student {{.ID}}</h3>
<form method="post" action="/edit/{{.ID}}">
<input name="name" value="{{.Name}}">
<input name="age" value="{{.Age}}">
<input name="grade" value="{{.Grade}}">
<button type="submit">Save</button>
</form>
</body>
</html>`

const loginHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<h3>Login</h3>
<form method="post" action="/login">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Login</button>
</form>
<p>No account? <a href="/register">Register</a></p>
</body>
</html>`

const registerHTML = `<!DOCTYPE html>
<html>
<head><title>Register</title></head>
<body>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<h3>Register</h3>
<form method="post" action="/register">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Register</button>
</form>
<p>Have an account? <a href="/login">Login</a></p>
</body>
</html>`

const noticeHTML = `<!DOCTYPE html>
<html>
<head><title>Students</title></head>
<body>
<p class="notice">{{.Notice}}</p>
<p><a href="/">back to list</a></p>
</body>
</html>`

var (
	listingTmpl  = template.Must(template.New("listing").Parse(listingHTML))
	editTmpl     = template.Must(template.New("edit").Parse(editHTML))
	loginTmpl    = template.Must(template.New("login").Parse(loginHTML))
	registerTmpl = template.Must(template.New("register").Parse(registerHTML))
	noticeTmpl   = template.Must(template.New("notice").Parse(noticeHTML))
)

type listingData struct {
	Username string
	Notice   string
	Students []models.Student
}

// editData carries the field values as strings so a rejected submission
// can be re-displayed exactly as typed.
type editData struct {
	Username string
	Notice   string
	ID       int64
	Name     string
	Age      string
	Grade    string
}

type authData struct {
	Notice string
}

type noticeData struct {
	Notice string
}

func render(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error.Printf("Failed to render %s: %v", tmpl.Name(), err)
		http.Error(w, "Something went wrong on the server", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
