package ocr

import (
	"strconv"
	"strings"
)

// TSV columns emitted by `tesseract ... tsv`.
const (
	tsvLevel = iota
	tsvPage
	tsvBlock
	tsvPar
	tsvLine
	tsvWord
	tsvLeft
	tsvTop
	tsvWidth
	tsvHeight
	tsvConf
	tsvText
	tsvColumns
)

const tsvWordLevel = "5"

// parseTSV rebuilds page text from word rows (one line per tesseract line,
// a blank line between paragraphs) and converts each word's box.
func parseTSV(out []byte) (string, []Word) {
	var (
		b        strings.Builder
		words    []Word
		lastPar  string
		lastLine string
	)
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < tsvColumns || cols[tsvLevel] != tsvWordLevel {
			continue
		}
		txt := strings.TrimSpace(cols[tsvText])
		if txt == "" {
			continue
		}

		par := cols[tsvPage] + "/" + cols[tsvBlock] + "/" + cols[tsvPar]
		line := par + "/" + cols[tsvLine]
		switch {
		case b.Len() == 0:
		case par != lastPar:
			b.WriteString("\n\n")
		case line != lastLine:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
		b.WriteString(txt)
		lastPar, lastLine = par, line

		left, _ := strconv.ParseFloat(cols[tsvLeft], 64)
		top, _ := strconv.ParseFloat(cols[tsvTop], 64)
		width, _ := strconv.ParseFloat(cols[tsvWidth], 64)
		height, _ := strconv.ParseFloat(cols[tsvHeight], 64)

		w := Word{Text: txt, BBox: BBoxFromPoints(RectPoints(left, top, width, height))}
		if c, err := strconv.ParseFloat(cols[tsvConf], 64); err == nil && c >= 0 {
			w.Confidence = confPtr(c)
		}
		words = append(words, w)
	}
	return b.String(), words
}
