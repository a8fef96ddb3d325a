package export

import (
	"archive/zip"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bible-scraper/model"
)

const (
	opfPath   = "OEBPS/content.opf"
	mediaType = "application/epub+zip"
)

// EPUBMeta describes the book as a whole.
type EPUBMeta struct {
	Title    string
	Language string
	// Source names the site the text was scraped from, if any.
	Source string
	// ID defaults to a random UUID.
	ID       uuid.UUID
	Modified time.Time
}

type bookPage struct {
	Lang     string
	Title    string
	Chapters []chapterPage
}

type chapterPage struct {
	ID     string
	Number string
	Verses []model.Verse
}

var bookTemplate = template.Must(template.New("book").Parse(`<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="{{.Lang}}" lang="{{.Lang}}">
<head>
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="../style.css"/>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- range .Chapters}}
  <h2 id="{{.ID}}">{{.Number}}</h2>
{{- range .Verses}}
  <p class="verse"><sup>{{.Number}}</sup>{{.Text}}</p>
{{- end}}
{{- end}}
</body>
</html>
`))

type navEntry struct {
	Link  string
	Title string
}

var navTemplate = template.Must(template.New("nav").Parse(`<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" xml:lang="{{.Lang}}" lang="{{.Lang}}">
<head>
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>{{.Title}}</h1>
    <ol>
{{- range .Entries}}
      <li><a href="{{.Link}}">{{.Title}}</a></li>
{{- end}}
    </ol>
  </nav>
</body>
</html>
`))

// WriteEPUB writes doc as an EPUB 3 book with one XHTML file per book and
// an NCX for older readers. mimetype is the first entry and is stored
// uncompressed.
func WriteEPUB(w io.Writer, doc model.Bible, meta EPUBMeta) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	if meta.Modified.IsZero() {
		meta.Modified = time.Now()
	}
	if meta.Language == "" {
		meta.Language = "en"
	}
	if meta.Title == "" {
		meta.Title = "Bible"
	}

	zw := zip.NewWriter(w)
	if err := addToZip(zw, "mimetype", []byte(mediaType), zip.Store); err != nil {
		return err
	}

	containerXML, err := marshalXML(&container{
		Xmlns:     "urn:oasis:names:tc:opendocument:xmlns:container",
		Version:   "1.0",
		Rootfiles: []rootfile{{FullPath: opfPath, MediaType: "application/oebps-package+xml"}},
	})
	if err != nil {
		return fmt.Errorf("failed to render container: %v", err)
	}
	if err := addToZip(zw, "META-INF/container.xml", containerXML, zip.Deflate); err != nil {
		return err
	}

	manifest := Manifest{Items: []ManifestItem{
		{ID: "nav", Link: "nav.xhtml", Media: "application/xhtml+xml", Properties: "nav"},
		{ID: "ncx", Link: "toc.ncx", Media: "application/x-dtbncx+xml"},
		{ID: "style", Link: "style.css", Media: "text/css"},
	}}
	spine := Spine{Toc: "ncx", Items: []SpineItem{{IDref: "nav"}}}
	var entries []navEntry
	var points []*NavPoint
	playOrder := 0

	for i, code := range doc.Codes() {
		book := doc[code]
		if book == nil {
			continue
		}
		id := fmt.Sprintf("book-%03d", i+1)
		link := "Text/" + id + ".xhtml"
		title := book.Title
		if title == "" {
			title = code
		}

		page := bookPage{Lang: meta.Language, Title: title}
		playOrder++
		point := &NavPoint{ID: id, PlayOrder: playOrder, Label: title, Content: NavPointContent{Src: link}}
		for _, ch := range model.SortedKeys(book.Chapters) {
			chID := "c" + ch
			verses := book.Chapters[ch]
			cp := chapterPage{ID: chID, Number: ch}
			for _, v := range model.SortedKeys(verses) {
				cp.Verses = append(cp.Verses, model.Verse{Number: v, Text: verses[v]})
			}
			page.Chapters = append(page.Chapters, cp)
			playOrder++
			point.NavPoints = append(point.NavPoints, &NavPoint{
				ID:        id + "-" + chID,
				PlayOrder: playOrder,
				Label:     title + " " + ch,
				Content:   NavPointContent{Src: link + "#" + chID},
			})
		}

		var buf strings.Builder
		buf.WriteString(xmlDeclaration)
		if err := bookTemplate.Execute(&buf, page); err != nil {
			return fmt.Errorf("failed to render %s: %v", code, err)
		}
		if err := addToZip(zw, "OEBPS/"+link, []byte(buf.String()), zip.Deflate); err != nil {
			return err
		}

		manifest.Items = append(manifest.Items, ManifestItem{ID: id, Link: link, Media: "application/xhtml+xml"})
		spine.Items = append(spine.Items, SpineItem{IDref: id})
		entries = append(entries, navEntry{Link: link, Title: title})
		points = append(points, point)
	}

	var nav strings.Builder
	nav.WriteString(xmlDeclaration)
	err = navTemplate.Execute(&nav, struct {
		Lang    string
		Title   string
		Entries []navEntry
	}{meta.Language, meta.Title, entries})
	if err != nil {
		return fmt.Errorf("failed to render contents: %v", err)
	}
	if err := addToZip(zw, "OEBPS/nav.xhtml", []byte(nav.String()), zip.Deflate); err != nil {
		return err
	}

	bookID := "urn:uuid:" + meta.ID.String()
	toc, err := marshalXML(&ncx{
		Xmlns:   "http://www.daisy.org/z3986/2005/ncx/",
		Version: "2005-1",
		Head:    []NCXMeta{{Name: "dtb:uid", Content: bookID}, {Name: "dtb:depth", Content: "2"}},
		Title:   meta.Title,
		NavMap:  points,
	})
	if err != nil {
		return fmt.Errorf("failed to render toc: %v", err)
	}
	if err := addToZip(zw, "OEBPS/toc.ncx", toc, zip.Deflate); err != nil {
		return err
	}

	dc := DublinCore{
		XmlnsDC:     "http://purl.org/dc/elements/1.1/",
		Titles:      []DCValue{{Value: meta.Title}},
		Identifiers: []DCIdentifier{{Value: bookID, ID: "book-id"}},
		Languages:   []DCValue{{Value: meta.Language}},
		Metas: []DublinCoreMeta{
			{Property: "dcterms:modified", Value: meta.Modified.UTC().Format("2006-01-02T15:04:05Z")},
		},
	}
	if meta.Source != "" {
		dc.Sources = []DCValue{{Value: meta.Source}}
	}
	opf, err := marshalXML(&opfPackage{
		Xmlns:            "http://www.idpf.org/2007/opf",
		Version:          "3.0",
		UniqueIdentifier: "book-id",
		Lang:             meta.Language,
		Metadata:         dc,
		Manifest:         manifest,
		Spine:            spine,
	})
	if err != nil {
		return fmt.Errorf("failed to render content opf: %v", err)
	}
	if err := addToZip(zw, opfPath, opf, zip.Deflate); err != nil {
		return err
	}
	if err := addToZip(zw, "OEBPS/style.css", []byte(styleCSS), zip.Deflate); err != nil {
		return err
	}
	return zw.Close()
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

func addToZip(zw *zip.Writer, relPath string, content []byte, method uint16) error {
	header := &zip.FileHeader{
		Name:   relPath,
		Method: method,
	}
	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %v", relPath, err)
	}
	_, err = writer.Write(content)
	return err
}
