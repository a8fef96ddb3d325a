package export

import "encoding/xml"

// Package document (content.opf) and NCX table of contents. Dublin Core
// elements carry their dc: prefix literally; the namespace is declared on
// metadata.

type opfPackage struct {
	XMLName          xml.Name   `xml:"package"`
	Xmlns            string     `xml:"xmlns,attr"`
	Version          string     `xml:"version,attr"`
	UniqueIdentifier string     `xml:"unique-identifier,attr"`
	Lang             string     `xml:"xml:lang,attr,omitempty"`
	Metadata         DublinCore `xml:"metadata"`
	Manifest         Manifest   `xml:"manifest"`
	Spine            Spine      `xml:"spine"`
}

type DublinCore struct {
	XmlnsDC     string           `xml:"xmlns:dc,attr"`
	Titles      []DCValue        `xml:"dc:title"`
	Identifiers []DCIdentifier   `xml:"dc:identifier"`
	Languages   []DCValue        `xml:"dc:language"`
	Creators    []DCValue        `xml:"dc:creator,omitempty"`
	Sources     []DCValue        `xml:"dc:source,omitempty"`
	Metas       []DublinCoreMeta `xml:"meta"`
}

type DCValue struct {
	Value string `xml:",chardata"`
	Lang  string `xml:"xml:lang,attr,omitempty"`
}

type DCIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr,omitempty"`
}

// DublinCoreMeta is an EPUB 3 <meta property="..."> refinement.
type DublinCoreMeta struct {
	Property string `xml:"property,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type Manifest struct {
	Items []ManifestItem `xml:"item"`
}

type ManifestItem struct {
	ID         string `xml:"id,attr"`
	Link       string `xml:"href,attr"`
	Media      string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type Spine struct {
	Toc   string      `xml:"toc,attr,omitempty"`
	Items []SpineItem `xml:"itemref"`
}

type SpineItem struct {
	IDref string `xml:"idref,attr"`
}

type ncx struct {
	XMLName xml.Name    `xml:"ncx"`
	Xmlns   string      `xml:"xmlns,attr"`
	Version string      `xml:"version,attr"`
	Head    []NCXMeta   `xml:"head>meta"`
	Title   string      `xml:"docTitle>text"`
	NavMap  []*NavPoint `xml:"navMap>navPoint"`
}

type NCXMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type NavPoint struct {
	ID        string          `xml:"id,attr"`
	PlayOrder int             `xml:"playOrder,attr"`
	Label     string          `xml:"navLabel>text"`
	Content   NavPointContent `xml:"content"`
	NavPoints []*NavPoint     `xml:"navPoint"`
}

type NavPointContent struct {
	Src string `xml:"src,attr"`
}

type container struct {
	XMLName   xml.Name   `xml:"container"`
	Xmlns     string     `xml:"xmlns,attr"`
	Version   string     `xml:"version,attr"`
	Rootfiles []rootfile `xml:"rootfiles>rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// marshalXML renders v indented with an XML declaration.
func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
