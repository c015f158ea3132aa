package web

import (
	"html/template"
	"io/fs"
	"testing"
)

func TestEmbeddedTemplatesExist(t *testing.T) {
	templatesFS := GetTemplatesFS()

	requiredFiles := []string{
		"index.html",
		"winners.html",
		"results.html",
		"admin/login.html",
		"admin/layout.html",
		"admin/dashboard.html",
		"admin/events.html",
		"admin/settings.html",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(templatesFS, file)
		if err != nil {
			t.Errorf("required template %q not found: %v", file, err)
		}
	}
}

func TestEmbeddedStaticFilesExist(t *testing.T) {
	staticFS := GetStaticFS()

	requiredFiles := []string{
		"css/site.css",
		"css/admin.css",
		"js/scoreboard.js",
		"js/admin.js",
		"js/dashboard.js",
		"js/events.js",
		"js/settings.js",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(staticFS, file)
		if err != nil {
			t.Errorf("required static file %q not found: %v", file, err)
		}
	}
}

func TestAdminTemplatesParse(t *testing.T) {
	templatesFS := GetTemplatesFS()

	for _, page := range []string{"admin/dashboard.html", "admin/events.html", "admin/settings.html"} {
		tmpl, err := template.ParseFS(templatesFS, "admin/layout.html", page)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", page, err)
		}
		for _, name := range []string{"admin", "content", "scripts"} {
			if tmpl.Lookup(name) == nil {
				t.Errorf("%s: template %q not defined", page, name)
			}
		}
	}
}

func TestStaticFilesReadable(t *testing.T) {
	staticFS := GetStaticFS()

	// Verify we can actually read content
	content, err := fs.ReadFile(staticFS, "js/scoreboard.js")
	if err != nil {
		t.Fatalf("failed to read js/scoreboard.js: %v", err)
	}
	if len(content) == 0 {
		t.Error("js/scoreboard.js is empty")
	}
}
