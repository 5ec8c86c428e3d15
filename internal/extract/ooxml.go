package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// OOXML documents (.docx, .pptx) are ZIP containers holding XML parts.
// Text lives in <w:t> runs (Word) and <a:t> runs (PowerPoint); no external
// library is needed beyond archive/zip and encoding/xml.

// extractDOCX reads the main document part of an OOXML Word file.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a zip container: %v", ErrCorruptDocument, err)
	}

	part := findPart(zr, "word/document.xml")
	if part == nil {
		return "", fmt.Errorf("%w: missing word/document.xml", ErrCorruptDocument)
	}

	text, err := xmlRunText(part, "t", "p")
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractPPTX reads every slide part of an OOXML PowerPoint file in slide
// order, so the extracted text follows the presentation.
func extractPPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a zip container: %v", ErrCorruptDocument, err)
	}

	slides := make([]*zip.File, 0, 8)
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("%w: no slides found", ErrCorruptDocument)
	}

	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})

	var b strings.Builder
	for _, f := range slides {
		text, err := xmlRunText(f, "t", "p")
		if err != nil {
			return "", err
		}
		if text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// slideNumber parses the N out of "ppt/slides/slideN.xml" for ordering.
func slideNumber(name string) int {
	name = strings.TrimSuffix(name, ".xml")
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	n, _ := strconv.Atoi(name[i:])
	return n
}

func findPart(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// xmlRunText streams an XML part and concatenates the character data of
// every <textEl> run, inserting a newline after each </paraEl>.
func xmlRunText(f *zip.File, textEl, paraEl string) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrCorruptDocument, f.Name, err)
	}
	defer rc.Close()

	var b strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %v", ErrCorruptDocument, f.Name, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textEl {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case textEl:
				inText = false
			case paraEl:
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
