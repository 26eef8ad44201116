package util

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "a\n\n  b\t c", "a b c"},
		{"trims edges", "  hello  ", "hello"},
		{"keeps cv punctuation", "C++ / C# (5 yrs), 50% uptime @acme #1", "C++ / C# (5 yrs), 50% uptime @acme #1"},
		{"strips control garbage", "name\x00\x07tail", "name tail"},
		{"empty", "   \n\t ", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeText(c.in); got != c.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestNeedsOCR(t *testing.T) {
	if needsOCR(strings.Repeat("a", ocrThreshold)) {
		t.Error("text at the threshold must not trigger OCR")
	}
	if !needsOCR(strings.Repeat("a", ocrThreshold-1)) {
		t.Error("text below the threshold must trigger OCR")
	}
	if !needsOCR("") {
		t.Error("empty direct extraction must trigger OCR")
	}
}

func TestBetterExtractionPrefersStrictlyLongerOCR(t *testing.T) {
	direct := "short direct text"
	ocr := "much longer text recovered by optical character recognition"
	if got := betterExtraction(direct, ocr); got != ocr {
		t.Errorf("got %q, want the longer OCR result", got)
	}
}

func TestBetterExtractionKeepsDirectOnTie(t *testing.T) {
	direct := "same length A"
	ocr := "same length B"
	if got := betterExtraction(direct, ocr); got != direct {
		t.Errorf("got %q, equal-length OCR must not replace direct text", got)
	}
	if got := betterExtraction(direct, "tiny"); got != direct {
		t.Errorf("got %q, shorter OCR must not replace direct text", got)
	}
	if got := betterExtraction(direct, ""); got != direct {
		t.Errorf("got %q, empty OCR must not replace direct text", got)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	_, err := e.ExtractText("cv.odt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractTextTxt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Jane Doe\n\nSenior   Gopher"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(zap.NewNop())
	text, err := e.ExtractText(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Jane Doe Senior Gopher" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextMissingTxt(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	_, err := e.ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("err = %v, want ErrCorruptDocument", err)
	}
}

func TestExtractTextDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	writeDocx(t, path, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Jane Doe</t></r></p>
    <p><r><t>Senior </t></r><r><t>Gopher</t></r></p>
  </body>
</document>`)

	e := NewExtractor(zap.NewNop())
	text, err := e.ExtractText(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Jane Doe Senior Gopher" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextDOCXNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(zap.NewNop())
	_, err := e.ExtractText(path)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("err = %v, want ErrCorruptDocument", err)
	}
}

func TestExtractTextDOCXMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/other.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("<x/>"))
	zw.Close()
	f.Close()

	e := NewExtractor(zap.NewNop())
	_, err = e.ExtractText(path)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("err = %v, want ErrCorruptDocument", err)
	}
}

func writeDocx(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}
