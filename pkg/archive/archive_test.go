package archive

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeZip creates an archive named name in a temp dir holding files.
func writeZip(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for n, content := range files {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func isJSP(name string) bool { return strings.HasSuffix(name, ".jsp") }

func TestOpenAndEntries(t *testing.T) {
	p := writeZip(t, "app.war", map[string]string{
		"index.jsp":           "<p>home</p>",
		"WEB-INF/views/a.jsp": "<p>a</p>",
		"WEB-INF/web.xml":     "<web-app/>",
		"static/logo.png":     "png",
	})
	a, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	got := a.Entries(isJSP)
	if len(got) != 2 || got[0] != "WEB-INF/views/a.jsp" || got[1] != "index.jsp" {
		t.Errorf("entries = %v", got)
	}
	data, err := a.ReadFile("index.jsp")
	if err != nil || string(data) != "<p>home</p>" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	if _, err := a.ReadFile("missing.jsp"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing entry error = %v", err)
	}
	if !a.Has("WEB-INF/web.xml") || a.Has("WEB-INF/") {
		t.Error("Has mismatch")
	}
}

func TestOpenNotAnArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fake.zip")
	if err := os.WriteFile(p, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(p); err == nil {
		t.Error("expected an error")
	}
}

func TestEPUBContentDocuments(t *testing.T) {
	p := writeZip(t, "book.epub", map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>
    <item id="c1" href="text/chapter%201.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
    <item id="gone" href="text/missing.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
</package>`,
		"OEBPS/text/chapter 1.xhtml": "<html/>",
		"OEBPS/text/unlisted.xhtml":  "<html/>",
		"OEBPS/style.css":            "p{}",
	})
	a, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	docs, err := a.ContentDocuments()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"OEBPS/text/chapter 1.xhtml", "OEBPS/text/missing.xhtml"}
	if len(docs) != 2 || docs[0] != want[0] || docs[1] != want[1] {
		t.Errorf("ContentDocuments = %q", docs)
	}
	got := a.Entries(func(string) bool { return true })
	if len(got) != 1 || got[0] != "OEBPS/text/chapter 1.xhtml" {
		t.Errorf("entries = %v", got)
	}
}

func TestEPUBWithoutContainerFallsBack(t *testing.T) {
	p := writeZip(t, "broken.epub", map[string]string{"a.xhtml": "<p/>"})
	a, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if got := a.Entries(func(string) bool { return true }); len(got) != 1 {
		t.Errorf("entries = %v", got)
	}
}

func TestMember(t *testing.T) {
	m := Member("dist/app.war", "WEB-INF/a.jsp")
	if m != "dist/app.war!/WEB-INF/a.jsp" {
		t.Errorf("Member = %q", m)
	}
	arch, entry, ok := SplitMember(m)
	if !ok || arch != "dist/app.war" || entry != "WEB-INF/a.jsp" {
		t.Errorf("SplitMember = %q %q %v", arch, entry, ok)
	}
	if _, _, ok := SplitMember("plain.html"); ok {
		t.Error("plain path split")
	}
	if !IsArchive("X.WAR") || IsArchive("x.html") {
		t.Error("IsArchive mismatch")
	}
}

func TestEPUBPrefersTypedRootfile(t *testing.T) {
	p := writeZip(t, "two.epub", map[string]string{
		"META-INF/container.xml": `<container><rootfiles>
<rootfile full-path="other.xml" media-type="application/xml"/>
<rootfile full-path="pkg.opf" media-type="application/oebps-package+xml"/>
</rootfiles></container>`,
		"pkg.opf": `<package><metadata><item href="no.xhtml" media-type="text/html"/></metadata>` +
			`<manifest><item href="a.html" media-type="text/html"/></manifest></package>`,
		"a.html":   "<p/>",
		"no.xhtml": "<p/>",
	})
	a, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	docs, err := a.ContentDocuments()
	if err != nil || len(docs) != 1 || docs[0] != "a.html" {
		t.Errorf("ContentDocuments = %q, %v", docs, err)
	}
}
