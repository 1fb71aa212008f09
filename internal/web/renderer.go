package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sync"

	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

const (
	layoutTemplate = "layout.html"
	templatesDir   = "templates"
)

// TemplateRenderer реализует render.HTMLRender для gin.
// Каждая страница собирается в отдельный набор вместе с layout.html.
type TemplateRenderer struct {
	fsys    fs.FS
	debug   bool // Если true, шаблоны перечитываются при каждом рендере
	funcMap template.FuncMap
	logger  *zap.Logger

	mu    sync.RWMutex
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer загружает все страницы из fsys/templates.
func NewTemplateRenderer(fsys fs.FS, debug bool, logger *zap.Logger) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fsys:    fsys,
		debug:   debug,
		funcMap: FuncMap(),
		logger:  logger.Named("TemplateRenderer"),
	}
	pages, err := r.loadTemplates()
	if err != nil {
		return nil, err
	}
	r.pages = pages
	r.logger.Info("Templates loaded", zap.Int("pages", len(pages)), zap.Bool("debug", debug))
	return r, nil
}

func (r *TemplateRenderer) loadTemplates() (map[string]*template.Template, error) {
	names, err := fs.Glob(r.fsys, path.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		page := path.Base(name)
		if page == layoutTemplate {
			continue
		}
		tmpl, err := r.parsePage(page)
		if err != nil {
			return nil, err
		}
		pages[page] = tmpl
	}
	return pages, nil
}

func (r *TemplateRenderer) parsePage(page string) (*template.Template, error) {
	tmpl, err := template.New(page).Funcs(r.funcMap).ParseFS(r.fsys,
		path.Join(templatesDir, layoutTemplate),
		path.Join(templatesDir, page),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
	}
	return tmpl, nil
}

// Instance реализует render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	tmpl, err := r.lookup(name)
	if err != nil {
		r.logger.Error("Template not available", zap.String("templateName", name), zap.Error(err))
		return errorRender{err: err}
	}
	return render.HTML{
		Template: tmpl,
		Name:     layoutTemplate,
		Data:     data,
	}
}

func (r *TemplateRenderer) lookup(name string) (*template.Template, error) {
	if r.debug {
		r.logger.Debug("Parsing template from scratch (debug mode)", zap.String("templateName", name))
		return r.parsePage(name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	return tmpl, nil
}

// errorRender передает ошибку загрузки шаблона в gin.
type errorRender struct {
	err error
}

func (e errorRender) Render(http.ResponseWriter) error { return e.err }

func (e errorRender) WriteContentType(http.ResponseWriter) {}
