package handlers

import (
	"html/template"
	"net/http"

	"github.com/gobuffalo/plush"
)

func (s *Server) Custom404Handler(w http.ResponseWriter, r *http.Request) {
	ctx := plush.NewContext()
	ctx.Set("path", r.URL.Path)

	notFoundContent, err := renderPlushTemplate("templates/404.plush.html", ctx)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx.Set("title", "Not found")
	ctx.Set("yield", template.HTML(notFoundContent))

	s.writePage(w, ctx, http.StatusNotFound)
}
