package archive

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
)

const (
	containerEntry   = "META-INF/container.xml"
	packageMediaType = "application/oebps-package+xml"
)

// ContentDocuments lists the XHTML and HTML documents of an EPUB, in
// manifest order, as entry names. The package document is the first
// rootfile in META-INF/container.xml typed as an OPF package, or the first
// rootfile when none is typed.
func (a *Archive) ContentDocuments() ([]string, error) {
	opf, err := a.packageEntry()
	if err != nil {
		return nil, err
	}
	rc, err := a.open(opf)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	docs := []string{}
	inManifest := false
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opf, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "manifest":
				inManifest = true
			case "item":
				if !inManifest {
					continue
				}
				switch attr(t, "media-type") {
				case "application/xhtml+xml", "text/html":
					docs = append(docs, resolveHref(opf, attr(t, "href")))
				}
			}
		case xml.EndElement:
			if t.Name.Local == "manifest" {
				inManifest = false
			}
		}
	}
}

func (a *Archive) packageEntry() (string, error) {
	rc, err := a.open(containerEntry)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var c struct {
		RootFiles []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfiles>rootfile"`
	}
	if err := xml.NewDecoder(rc).Decode(&c); err != nil {
		return "", fmt.Errorf("%s: %w", containerEntry, err)
	}
	if len(c.RootFiles) == 0 {
		return "", fmt.Errorf("%s: no rootfile", containerEntry)
	}
	for _, rf := range c.RootFiles {
		if rf.MediaType == packageMediaType {
			return rf.FullPath, nil
		}
	}
	return c.RootFiles[0].FullPath, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// resolveHref turns a manifest href, which is relative to the package
// document and percent-encoded, into an entry name.
func resolveHref(opf, href string) string {
	if u, err := url.PathUnescape(href); err == nil {
		href = u
	}
	return path.Join(path.Dir(opf), href)
}
