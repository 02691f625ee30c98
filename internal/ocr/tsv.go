// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/textract/pkg/types"
)

// ErrMalformedTSV indicates Tesseract TSV output that cannot be parsed.
var ErrMalformedTSV = errors.New("malformed tesseract TSV")

// TSV layout levels.
const (
	levelPage = 1
	levelLine = 4
	levelWord = 5
)

const tsvColumns = 12

type tsvRow struct {
	level                    int
	left, top, width, height int
	conf                     float64
	text                     string
}

type tsvLine struct {
	left, top, width, height int
	words                    []string
	confSum                  float64
	confN                    int
}

// ParseTSV reads the output of `tesseract ... tsv` and returns one
// observation per text line. Line boxes come from level-4 rows, words from
// level-5 rows; boxes are normalized by the page row's dimensions.
func ParseTSV(r io.Reader) ([]types.Observation, error) {
	var (
		pageW, pageH int
		lines        []*tsvLine
		cur          *tsvLine
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), "\r")
		if raw == "" || strings.HasPrefix(raw, "level\t") {
			continue
		}
		row, err := parseTSVRow(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTSV, lineNo, err)
		}

		switch {
		case row.level == levelPage:
			pageW, pageH = row.width, row.height
			cur = nil
		case row.level == levelLine:
			cur = &tsvLine{left: row.left, top: row.top, width: row.width, height: row.height}
			lines = append(lines, cur)
		case row.level == levelWord:
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: word outside a text line", ErrMalformedTSV, lineNo)
			}
			word := strings.TrimSpace(row.text)
			if word == "" {
				continue
			}
			cur.words = append(cur.words, word)
			if row.conf >= 0 {
				cur.confSum += row.conf
				cur.confN++
			}
		default:
			cur = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}

	if len(lines) > 0 && (pageW <= 0 || pageH <= 0) {
		return nil, fmt.Errorf("%w: missing page dimensions", ErrMalformedTSV)
	}

	out := make([]types.Observation, 0, len(lines))
	fw, fh := float64(pageW), float64(pageH)
	for _, l := range lines {
		if len(l.words) == 0 {
			continue
		}
		var conf float64
		if l.confN > 0 {
			conf = l.confSum / float64(l.confN) / 100
		}
		out = append(out, types.Observation{
			Candidates: []types.Candidate{{Text: strings.Join(l.words, " "), Confidence: conf}},
			Box: types.BoundingBox{
				X:      float64(l.left) / fw,
				Y:      float64(l.top) / fh,
				Width:  float64(l.width) / fw,
				Height: float64(l.height) / fh,
			},
		})
	}
	return out, nil
}

func parseTSVRow(raw string) (tsvRow, error) {
	fields := strings.SplitN(raw, "\t", tsvColumns)
	if len(fields) < tsvColumns-1 {
		return tsvRow{}, fmt.Errorf("expected %d columns, got %d", tsvColumns, len(fields))
	}
	ints := make([]int, 10)
	for i := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return tsvRow{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		ints[i] = n
	}
	conf, err := strconv.ParseFloat(strings.TrimSpace(fields[10]), 64)
	if err != nil {
		return tsvRow{}, fmt.Errorf("confidence: %w", err)
	}
	row := tsvRow{
		level:  ints[0],
		left:   ints[6],
		top:    ints[7],
		width:  ints[8],
		height: ints[9],
		conf:   conf,
	}
	if len(fields) == tsvColumns {
		row.text = fields[11]
	}
	return row, nil
}
