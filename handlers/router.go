package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/utils"
	"github.com/baiye-site/sitecontent/validate"
	"github.com/gobuffalo/plush"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

//go:embed templates
var templates embed.FS

// Server serves the generated data files together with a small preview
// of what the generator produced.
type Server struct {
	Fs          afero.Fs
	OutputDir   string
	SourcesFile string
	// Validator, when set, is run on every index request.
	Validator *validate.Validator
	Log       logrus.FieldLogger
}

type issueView struct {
	Severity string
	Text     string
	Hint     string
}

type artifactInfo struct {
	Name    string
	URL     string
	Size    int64
	ModTime string
}

func SetupRouter(s *Server) (*mux.Router, error) {
	router := mux.NewRouter()

	router.NotFoundHandler = http.HandlerFunc(s.Custom404Handler)

	publicDir := filepath.Dir(s.OutputDir)
	router.PathPrefix("/assets/").Handler(http.FileServer(afero.NewHttpFs(s.Fs).Dir(publicDir))).Methods("GET")

	router.HandleFunc("/data/{key:[a-z0-9-]+}.json", s.DataHandler).Methods("GET")
	router.HandleFunc("/sitemap.xml", s.SitemapHandler).Methods("GET")
	router.HandleFunc("/sources", s.SourcesHandler).Methods("GET")
	router.HandleFunc("/", s.IndexHandler).Methods("GET")

	return router, nil
}

// DataHandler serves one generated data file. The files change while
// watching, so responses are never cached.
func (s *Server) DataHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	data, err := afero.ReadFile(s.Fs, filepath.Join(s.OutputDir, key+".json"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(data)
}

func (s *Server) SitemapHandler(w http.ResponseWriter, r *http.Request) {
	data, err := afero.ReadFile(s.Fs, filepath.Join(s.OutputDir, config.SiteConfigKey+".json"))
	if err != nil {
		s.Custom404Handler(w, r)
		return
	}

	var site config.SiteConfig
	if err := json.Unmarshal(data, &site); err != nil {
		http.Error(w, fmt.Sprintf("Error reading site config: %v", err), http.StatusInternalServerError)
		return
	}

	routes := make([]string, 0, len(config.Pages))
	for _, p := range config.Pages {
		routes = append(routes, p.Route())
	}

	sitemap, err := utils.GenerateSitemapContent(site.BaseURL, routes, time.Now())
	if err != nil {
		s.log().WithError(err).Warn("Site config has no baseUrl, cannot serve sitemap")
		s.Custom404Handler(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(sitemap))
}

// SourcesHandler renders the content provenance notes.
func (s *Server) SourcesHandler(w http.ResponseWriter, r *http.Request) {
	source, err := afero.ReadFile(s.Fs, s.SourcesFile)
	if err != nil {
		s.Custom404Handler(w, r)
		return
	}

	ctx := plush.NewContext()
	ctx.Set("title", "Sources")
	ctx.Set("yield", template.HTML(renderMarkdown(source)))

	s.writePage(w, ctx, http.StatusOK)
}

func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	artifacts, err := s.artifacts()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error listing data files: %v", err), http.StatusInternalServerError)
		return
	}

	ctx := plush.NewContext()
	ctx.Set("artifacts", artifacts)
	ctx.Set("outputDir", s.OutputDir)
	ctx.Set("hasArtifacts", len(artifacts) > 0)

	var issues []issueView
	outcome := ""
	if s.Validator != nil {
		report := s.Validator.Run()
		for _, i := range report.Issues {
			issues = append(issues, issueView{Severity: i.Severity.String(), Text: i.String(), Hint: i.Hint})
		}
		outcome = report.Outcome().String()
	}
	ctx.Set("issues", issues)
	ctx.Set("hasIssues", len(issues) > 0)
	ctx.Set("outcome", outcome)

	content, err := renderPlushTemplate("templates/index.plush.html", ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}

	ctx.Set("title", "Generated data")
	ctx.Set("yield", template.HTML(content))

	s.writePage(w, ctx, http.StatusOK)
}

func (s *Server) artifacts() ([]artifactInfo, error) {
	infos, err := afero.ReadDir(s.Fs, s.OutputDir)
	if err != nil {
		if exists, _ := afero.DirExists(s.Fs, s.OutputDir); !exists {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	var artifacts []artifactInfo
	for _, fi := range infos {
		name := fi.Name()
		if fi.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		artifacts = append(artifacts, artifactInfo{
			Name:    name,
			URL:     "/data/" + name,
			Size:    fi.Size(),
			ModTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		})
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })

	return artifacts, nil
}

func (s *Server) writePage(w http.ResponseWriter, ctx *plush.Context, status int) {
	pageHtml, err := renderPlushTemplate("templates/layouts/base.plush.html", ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error executing base layout: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(pageHtml)); err != nil {
		s.log().WithError(err).Warn("Error writing response")
	}
}

func (s *Server) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func renderPlushTemplate(source string, ctx *plush.Context) (string, error) {
	content, err := templates.ReadFile(source)
	if err != nil {
		return "", errors.WithStack(err)
	}

	template, err := plush.Parse(string(content))
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", source)
	}

	return template.Exec(ctx)
}

func renderMarkdown(source []byte) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	htmlContent := markdown.ToHTML(source, p, nil)

	return strings.Replace(`
  <article class="sources">
  [content]
  </article>
  `, "[content]", string(htmlContent), 1)
}
