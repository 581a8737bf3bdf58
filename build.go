//go:build ignore

package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Build step: minifies templates and static assets into dist/ for
// production serving. Run with: go run build.go
func main() {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)

	jobs := []struct {
		dir       string
		ext       string
		mediaType string
	}{
		{"templates", ".html", "text/html"},
		{"static", ".css", "text/css"},
		{"static", ".js", "application/javascript"},
	}

	for _, job := range jobs {
		err := filepath.WalkDir(job.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, job.ext) {
				return minifyFile(m, path, "dist/"+path, job.mediaType)
			}
			return nil
		})
		if err != nil {
			log.Fatalf("Error minifying %s files in %s: %v", job.ext, job.dir, err)
		}
	}

	fmt.Println("Minification complete, output in dist/")
}

func minifyFile(m *minify.M, srcPath, dstPath, mediaType string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return err
	}

	ratio := float64(len(src)-len(minified)) / float64(len(src)) * 100
	fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n",
		srcPath, len(src), len(minified), ratio)
	return nil
}
