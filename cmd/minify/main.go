// Command minify minifies a single CSS, JS or HTML file. The build.go
// script handles whole-tree minification; this tool covers one-off files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js, or html)")
	)
	flag.Parse()

	if *inputFile == "" || *outputFile == "" || *fileType == "" {
		log.Fatal("Usage: minify -input=<file> -output=<file> -type=<css|js|html>")
	}

	var mediaType string
	m := minify.New()
	switch strings.ToLower(*fileType) {
	case "css":
		mediaType = "text/css"
		m.AddFunc(mediaType, css.Minify)
	case "js":
		mediaType = "application/javascript"
		m.AddFunc(mediaType, js.Minify)
	case "html":
		mediaType = "text/html"
		m.AddFunc(mediaType, html.Minify)
	default:
		log.Fatalf("Unknown file type: %s", *fileType)
	}

	input, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	minified, err := m.Bytes(mediaType, input)
	if err != nil {
		log.Fatalf("Failed to minify %s: %v", *fileType, err)
	}

	if err := os.MkdirAll(filepath.Dir(*outputFile), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(*outputFile, minified, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}
}
