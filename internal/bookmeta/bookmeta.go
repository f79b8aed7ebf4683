// Package bookmeta extracts title, author, and page information from local
// book files before upload, so the CLI can default upload metadata the same
// way the server would.
package bookmeta

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

const excerptRunes = 240

// Meta is what could be read from the file. Zero fields mean the file does
// not carry that information.
type Meta struct {
	Title   string
	Author  string
	Pages   int
	Excerpt string
}

// Extract reads metadata from the file at path, dispatching on extension.
// Unsupported extensions yield only a filename-derived title.
func Extract(path string) (Meta, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".epub":
		return extractEPUB(path)
	default:
		return Meta{Title: titleFromFilename(path)}, nil
	}
}

func extractPDF(path string) (Meta, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return Meta{}, fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	meta := Meta{Pages: reader.NumPage()}
	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		meta.Title = strings.TrimSpace(info.Key("Title").Text())
		meta.Author = strings.TrimSpace(info.Key("Author").Text())
	}
	if meta.Title == "" {
		meta.Title = titleFromFilename(path)
	}

	// First page text as an excerpt; problematic pages are skipped the same
	// way the server-side parser skips them.
	for i := 1; i <= reader.NumPage() && meta.Excerpt == ""; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		meta.Excerpt = clipExcerpt(text)
	}
	return meta, nil
}

// opfPackage is the subset of the EPUB package document we care about.
// The xml decoder matches dc:title/dc:creator by local name.
type opfPackage struct {
	Metadata struct {
		Titles   []string `xml:"title"`
		Creators []string `xml:"creator"`
	} `xml:"metadata"`
}

func extractEPUB(path string) (Meta, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return Meta{}, fmt.Errorf("open epub: %w", err)
	}
	defer reader.Close()

	meta := Meta{}
	for _, file := range reader.File {
		name := strings.ToLower(file.Name)
		switch {
		case strings.HasSuffix(name, ".opf") && meta.Title == "":
			data, err := readZipFile(file)
			if err != nil {
				return Meta{}, err
			}
			var pkg opfPackage
			if err := xml.Unmarshal(data, &pkg); err != nil {
				continue
			}
			if len(pkg.Metadata.Titles) > 0 {
				meta.Title = strings.TrimSpace(pkg.Metadata.Titles[0])
			}
			if len(pkg.Metadata.Creators) > 0 {
				meta.Author = strings.TrimSpace(pkg.Metadata.Creators[0])
			}
		case strings.HasSuffix(name, ".xhtml") || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm"):
			meta.Pages++
			if meta.Excerpt != "" {
				continue
			}
			data, err := readZipFile(file)
			if err != nil {
				return Meta{}, err
			}
			doc, err := html.Parse(bytes.NewReader(data))
			if err != nil {
				continue
			}
			meta.Excerpt = clipExcerpt(extractText(doc))
		}
	}
	if meta.Title == "" {
		meta.Title = titleFromFilename(path)
	}
	return meta, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("read epub file: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read epub content: %w", err)
	}
	return data, nil
}

func extractText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		case html.ElementNode:
			if node.Data == "script" || node.Data == "style" {
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "br" || node.Data == "div" || node.Data == "li") {
			buf.WriteString(" ")
		}
	}
	walk(n)
	return buf.String()
}

func clipExcerpt(text string) string {
	text = strings.Join(strings.Fields(strings.ToValidUTF8(text, "")), " ")
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:excerptRunes])) + "…"
}

func titleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
