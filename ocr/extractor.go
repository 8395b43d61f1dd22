// Package ocr reads a printed price off a photographed price tag. Extraction
// is best-effort by design: every internal failure degrades to a miss, so
// callers only ever distinguish Found from not-found.
package ocr

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Result is the sum-type outcome of an extraction. A miss is a normal
// result, not an error.
type Result struct {
	Price string
	Found bool
}

func miss() Result { return Result{} }

func found(price string) Result { return Result{Price: price, Found: true} }

// priceRe matches an optional rupee glyph followed by a 2–5 digit run.
// Only the first match in OCR emission order is used.
var priceRe = regexp.MustCompile(`₹?\s?(\d{2,5})`)

// Extractor shells out to an external OCR command:
//
//	<command> -lang <lang> <image-file>
//
// The command prints recognized text on stdout, either PaddleOCR-style JSON
// ({"rec_texts": [...]}) or plain text.
type Extractor struct {
	Command string
	Lang    string
	Timeout time.Duration
}

func NewExtractor(command, lang string, timeout time.Duration) *Extractor {
	return &Extractor{Command: command, Lang: lang, Timeout: timeout}
}

// ExtractPrice copies the upload to a scoped temp file, runs OCR over it and
// scans the recognized text for a plausible price. The temp file is removed
// on every path. Never returns an error.
func (e *Extractor) ExtractPrice(ctx context.Context, upload io.Reader, filename string) Result {
	if e.Command == "" {
		log.Println("ocr: no OCR command configured")
		return miss()
	}

	tmp, err := os.CreateTemp("", "price-*"+filepath.Ext(filename))
	if err != nil {
		log.Println("ocr: temp file:", err)
		return miss()
	}
	defer os.Remove(tmp.Name())

	_, copyErr := io.Copy(tmp, upload)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		log.Println("ocr: write upload:", copyErr, closeErr)
		return miss()
	}

	text, err := e.recognize(ctx, tmp.Name())
	if err != nil {
		log.Println("ocr: recognize:", err)
		return miss()
	}
	return ScanPrice(text)
}

func (e *Extractor) recognize(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, e.Command, "-lang", e.Lang, path).Output()
	if err != nil {
		return "", err
	}

	var payload struct {
		RecTexts []string `json:"rec_texts"`
	}
	if err := json.Unmarshal(out, &payload); err == nil {
		// JSON output: only the recognized fragments count. An empty
		// rec_texts means OCR saw nothing; the surrounding metadata
		// (scores, timings) must never be scanned for a price.
		return strings.Join(payload.RecTexts, " "), nil
	}
	// Not JSON: treat stdout as the recognized text itself.
	return string(out), nil
}

// ScanPrice applies the price pattern to recognized text and returns the
// first match. Exposed separately so the pattern is testable without OCR.
func ScanPrice(text string) Result {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return miss()
	}
	return found(m[1])
}
