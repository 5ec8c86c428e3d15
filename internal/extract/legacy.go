package extract

import (
	"bytes"
	"fmt"
	"io"
	"unicode"

	"github.com/richardlehane/mscfb"
)

// Legacy Office files (.doc, .ppt) are OLE2 compound documents. The full
// binary formats are baroque, but the visible text sits in well-known
// streams as UTF-16LE or single-byte runs. We walk the compound file with
// mscfb and salvage printable runs from the text-bearing stream, which is
// enough for quiz generation input.

const minRunLength = 4

// extractLegacyWord reads the WordDocument stream of a legacy .doc file.
func extractLegacyWord(data []byte) (string, error) {
	return extractCompoundStream(data, "WordDocument")
}

// extractLegacyPowerPoint reads the "PowerPoint Document" stream of a
// legacy .ppt file.
func extractLegacyPowerPoint(data []byte) (string, error) {
	return extractCompoundStream(data, "PowerPoint Document")
}

func extractCompoundStream(data []byte, streamName string) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: not a compound file: %v", ErrCorruptDocument, err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != streamName {
			continue
		}
		stream := make([]byte, entry.Size)
		n, rerr := io.ReadFull(doc, stream)
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			return "", fmt.Errorf("%w: read %s stream: %v", ErrCorruptDocument, streamName, rerr)
		}
		return salvageText(stream[:n]), nil
	}

	return "", fmt.Errorf("%w: missing %s stream", ErrCorruptDocument, streamName)
}

// salvageText recovers human-readable runs from a binary stream. It decodes
// both UTF-16LE and single-byte interpretations and keeps whichever runs
// clear the minimum length, which filters out control bytes and binary
// structure while preserving sentence text.
func salvageText(b []byte) string {
	utf16Text := salvageUTF16LE(b)
	byteText := salvageSingleByte(b)

	// The UTF-16 pass wins for modern .doc/.ppt content; fall back to the
	// single-byte pass for cp1252-era files.
	if len(utf16Text) >= len(byteText) {
		return utf16Text
	}
	return byteText
}

func salvageUTF16LE(b []byte) string {
	var out bytes.Buffer
	var run []rune

	flush := func() {
		if len(run) >= minRunLength {
			for _, r := range run {
				out.WriteRune(r)
			}
			out.WriteByte('\n')
		}
		run = run[:0]
	}

	for i := 0; i+1 < len(b); i += 2 {
		r := rune(uint16(b[i]) | uint16(b[i+1])<<8)
		if isSalvageable(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return out.String()
}

func salvageSingleByte(b []byte) string {
	var out bytes.Buffer
	var run []byte

	flush := func() {
		if len(run) >= minRunLength {
			out.Write(run)
			out.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()

	return out.String()
}

// isSalvageable reports whether a rune plausibly belongs to document text.
func isSalvageable(r rune) bool {
	if r == ' ' || r == '\t' {
		return true
	}
	return r < 0xd800 && unicode.IsGraphic(r)
}
