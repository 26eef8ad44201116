package util

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"archive/zip"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrCorruptDocument   = errors.New("document is corrupt or protected")
)

// Direct extraction below this many characters is treated as a scanned
// document and triggers the OCR fallback.
const ocrThreshold = 50

const ocrDPI = 300

// Extractor turns uploaded CV documents into normalized plain text.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText extracts plain text from a PDF, DOCX or TXT file and
// normalizes it. Unknown extensions fail with ErrUnsupportedFormat,
// unreadable containers with ErrCorruptDocument.
func (e *Extractor) ExtractText(path string) (string, error) {
	var text string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = e.extractPDF(path)
	case ".docx":
		text, err = extractDOCX(path)
	case ".txt":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	return NormalizeText(text), nil
}

// extractPDF tries direct text extraction first. Short output means the PDF
// is likely image-based, so each page is rasterized and run through
// tesseract; the longer of the two results wins. OCR failure degrades to the
// direct result rather than failing the caller.
func (e *Extractor) extractPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	var direct bytes.Buffer
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			continue
		}
		direct.WriteString(pageText)
		direct.WriteString("\n")
	}

	directText := strings.TrimSpace(direct.String())
	if !needsOCR(directText) {
		return directText, nil
	}

	ocrText, err := e.ocrPDF(doc)
	if err != nil {
		e.logger.Warn("ocr fallback failed, keeping direct extraction",
			zap.Int("direct_len", len(directText)),
			zap.Error(err))
		return directText, nil
	}

	return betterExtraction(directText, ocrText), nil
}

// needsOCR reports whether direct extraction came back short enough to treat
// the document as a scan.
func needsOCR(directText string) bool {
	return len(directText) < ocrThreshold
}

// betterExtraction keeps the direct result unless OCR produced strictly more
// text. On a tie the direct result wins: it carries no recognition noise.
func betterExtraction(directText, ocrText string) string {
	if len(ocrText) > len(directText) {
		return ocrText
	}
	return directText
}

func (e *Extractor) ocrPDF(doc *fitz.Document) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", err
	}

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, ocrDPI)
		if err != nil {
			lastErr = fmt.Errorf("page %d: rasterize: %w", n+1, err)
			continue
		}

		prepped := preprocessForOCR(img)

		tmpFile, err := os.CreateTemp("", "page-*.png")
		if err != nil {
			lastErr = fmt.Errorf("page %d: temp file: %w", n+1, err)
			continue
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := savePNG(tmpPath, prepped); err != nil {
			lastErr = fmt.Errorf("page %d: save png: %w", n+1, err)
			continue
		}

		cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
		out, err := cmd.CombinedOutput()
		if err != nil {
			lastErr = fmt.Errorf("page %d: tesseract: %w, output: %s", n+1, err, string(out))
			continue
		}

		pageText := strings.TrimSpace(string(out))
		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 && lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

// preprocessForOCR converts the page to grayscale and stretches contrast so
// faint scans survive binarization inside tesseract.
func preprocessForOCR(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	minY, maxY := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			gray.SetGray(x, y, g)
			if g.Y < minY {
				minY = g.Y
			}
			if g.Y > maxY {
				maxY = g.Y
			}
		}
	}

	if maxY <= minY {
		return gray
	}

	scale := 255.0 / float64(maxY-minY)
	for i, v := range gray.Pix {
		gray.Pix[i] = uint8(float64(v-minY) * scale)
	}
	return gray
}

func checkTesseract() error {
	cmd := exec.Command("tesseract", "-v")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w, output: %s", err, string(out))
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// docx paragraph markup, just enough to pull the text runs out.
type docxDocument struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// extractDOCX reads word/document.xml out of the docx zip container and
// joins paragraph runs with newlines.
func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer zr.Close()

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("%w: missing word/document.xml", ErrCorruptDocument)
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var sb strings.Builder
	for _, p := range doc.Body.Paragraphs {
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s.,;:!?()\-'"/+%&@#]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// NormalizeText strips characters outside the allow-list and collapses
// whitespace runs into single spaces. This is the text sent onward to the
// prompt layer.
func NormalizeText(text string) string {
	text = disallowedChars.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
