// Package posco handles POSCO mill certificates: table layouts broken
// enough that the generic extractors misalign plates and heats, plus
// the vendor's known OCR confusions in heat numbers.
package posco

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/constants"
	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// VendorID keys this vendor in correction and parser registries.
const VendorID = "posco"

var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(PP\d{5,6}(?:-\d{2,4})?(?:-\d{4})?)\b`),
	regexp.MustCompile(`(?i)\b(PP\d{5,6}[A-Z]\d{1,4})\b`),
	regexp.MustCompile(`(?i)\b(\d{2}[A-Z]{2}\d{4}[A-Z]\d{1,4})\b`),
}

var heatPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(SU\d{5,8})\b`),
	regexp.MustCompile(`(?i)\b([A-Z]{1,3}\d{5,8})\b`),
	regexp.MustCompile(`(?i)\b(\d{6,8}[A-Z]{0,2})\b`),
}

var certPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{6}-FP\d{2}[A-Z0-9]+-[0-9A-Z\-]+)\b`),
	regexp.MustCompile(`(?i)Certificate\s+No[.\s]*(\d{6}-[A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)(\d{6}-FP[0-9A-Z\-]+)`),
}

const (
	// yTolerance is the vertical slack (user-space units) for treating
	// a plate and heat as the same visual row.
	yTolerance = 5.0
	// maxPairsPerPage caps aligned output; anything beyond is noise.
	maxPairsPerPage = 20
	// maxPlatesWithoutHeats caps plate-only entries on heatless pages.
	maxPlatesWithoutHeats = 10
	// headerPages is how many leading pages are scanned for the shared
	// certificate number.
	headerPages = 3
)

// candidate is one potential plate or heat value with its provenance.
type candidate struct {
	value      string
	source     string
	row        int     // table row index (SourceTable)
	y          float64 // vertical position (SourcePositioned)
	confidence float64
}

// TableParser runs three independent candidate passes per page and
// aligns plates with heats by greedy proximity.
type TableParser struct {
	logger *slog.Logger
}

func NewTableParser(logger *slog.Logger) *TableParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableParser{logger: logger}
}

// Parse extracts aligned plate/heat pairs from the whole document. The
// certificate number is taken once from the document header and shared
// across every entry.
func (p *TableParser) Parse(ctx context.Context, doc extract.Document) []extract.Entry {
	cert := p.certificateNumber(doc)

	var results []extract.Entry
	for n := 1; n <= doc.PageCount(); n++ {
		if ctx.Err() != nil {
			break
		}
		pc, err := doc.Page(n)
		if err != nil {
			p.logger.Error("specialized parse: page unreadable", "page", n, "error", err)
			continue
		}
		plates, heats := p.pageCandidates(pc)
		entries := p.align(plates, heats, n)
		for i := range entries {
			entries[i].TestCertNo = cert
			entries[i].Page = n
		}
		results = append(results, entries...)
	}
	return results
}

// certificateNumber scans the first pages for the header certificate.
func (p *TableParser) certificateNumber(doc extract.Document) string {
	limit := min(headerPages, doc.PageCount())
	for n := 1; n <= limit; n++ {
		pc, err := doc.Page(n)
		if err != nil {
			continue
		}
		for _, re := range certPatterns {
			if m := re.FindStringSubmatch(pc.Text); m != nil {
				cert := strings.TrimSpace(m[1])
				p.logger.Info("certificate number found", "page", n, "cert", cert)
				return cert
			}
		}
	}
	p.logger.Warn("no certificate number in document header")
	return constants.NotAvailable
}

// pageCandidates runs the three extraction passes: structured table
// cells, raw text lines, and glyph clustering by vertical position.
func (p *TableParser) pageCandidates(pc extract.PageContent) (plates, heats []candidate) {
	for _, tbl := range pc.Tables {
		tp, th := candidatesFromTable(tbl)
		plates = append(plates, tp...)
		heats = append(heats, th...)
	}

	for lineIdx, line := range strings.Split(pc.Text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, v := range findAll(platePatterns, line) {
			plates = append(plates, candidate{value: v, source: constants.SourceText, row: lineIdx, confidence: constants.ConfidenceText})
		}
		for _, v := range findAll(heatPatterns, line) {
			heats = append(heats, candidate{value: v, source: constants.SourceText, row: lineIdx, confidence: constants.ConfidenceText})
		}
	}

	for _, line := range syntheticLines(pc.Glyphs) {
		for _, v := range findAll(platePatterns, line.text) {
			plates = append(plates, candidate{value: v, source: constants.SourcePositioned, y: line.y, confidence: constants.ConfidencePositioned})
		}
		for _, v := range findAll(heatPatterns, line.text) {
			heats = append(heats, candidate{value: v, source: constants.SourcePositioned, y: line.y, confidence: constants.ConfidencePositioned})
		}
	}
	return plates, heats
}

func candidatesFromTable(tbl [][]string) (plates, heats []candidate) {
	if len(tbl) < 2 {
		return nil, nil
	}
	productCol, heatCol := -1, -1
	for idx, header := range tbl[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case h == "":
		case strings.Contains(h, "product") || strings.Contains(h, "part") || strings.Contains(h, "plate"):
			productCol = idx
		case strings.Contains(h, "heat") || strings.Contains(h, "lot"):
			heatCol = idx
		}
	}
	for rowIdx, row := range tbl[1:] {
		if productCol >= 0 && productCol < len(row) {
			for _, v := range findAll(platePatterns, row[productCol]) {
				plates = append(plates, candidate{value: v, source: constants.SourceTable, row: rowIdx + 1, confidence: constants.ConfidenceTable})
			}
		}
		if heatCol >= 0 && heatCol < len(row) {
			for _, v := range findAll(heatPatterns, row[heatCol]) {
				heats = append(heats, candidate{value: v, source: constants.SourceTable, row: rowIdx + 1, confidence: constants.ConfidenceTable})
			}
		}
	}
	return plates, heats
}

// findAll collects unique matches of any pattern within one text unit,
// preserving first-seen order.
func findAll(patterns []*regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimSpace(m[1])
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

type syntheticLine struct {
	y    float64
	text string
}

// syntheticLines reassembles positioned glyphs into lines: grouped by
// rounded vertical coordinate, sorted horizontally, concatenated.
func syntheticLines(glyphs []extract.Glyph) []syntheticLine {
	byY := make(map[float64][]extract.Glyph)
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		key := math.Round(g.Y*10) / 10
		byY[key] = append(byY[key], g)
	}

	lines := make([]syntheticLine, 0, len(byY))
	for y, group := range byY {
		sort.SliceStable(group, func(i, j int) bool { return group[i].X < group[j].X })
		var b strings.Builder
		for _, g := range group {
			b.WriteString(g.S)
		}
		lines = append(lines, syntheticLine{y: y, text: b.String()})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	return lines
}

// align pairs plates with heats: identical table row first, nearest
// vertical position within tolerance second (greedy single pass, not
// globally optimal), sequential insertion order as last resort.
func (p *TableParser) align(plates, heats []candidate, page int) []extract.Entry {
	sort.SliceStable(plates, func(i, j int) bool { return plates[i].confidence > plates[j].confidence })
	sort.SliceStable(heats, func(i, j int) bool { return heats[i].confidence > heats[j].confidence })

	if len(plates) == 0 {
		p.logger.Warn("no plate numbers found", "page", page)
		return nil
	}
	if len(heats) == 0 {
		p.logger.Warn("no heat numbers found, emitting plate-only entries", "page", page)
		var entries []extract.Entry
		for _, plate := range uniqueValues(plates) {
			entries = append(entries, extract.Entry{PlateNo: plate, HeatNo: constants.NotAvailable})
			if len(entries) == maxPlatesWithoutHeats {
				break
			}
		}
		return entries
	}

	pairs := matchByTableRow(plates, heats)
	pairs = append(pairs, matchByPosition(plates, heats)...)
	if len(pairs) == 0 {
		pairs = matchSequentially(plates, heats)
	}

	seen := make(map[[2]string]struct{})
	var entries []extract.Entry
	for _, pair := range pairs {
		key := [2]string{pair.PlateNo, pair.HeatNo}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, pair)
		if len(entries) == maxPairsPerPage {
			break
		}
	}
	p.logger.Info("aligned plate-heat combinations", "page", page, "count", len(entries))
	return entries
}

func matchByTableRow(plates, heats []candidate) []extract.Entry {
	heatsByRow := make(map[int][]candidate)
	for _, h := range heats {
		if h.source == constants.SourceTable {
			heatsByRow[h.row] = append(heatsByRow[h.row], h)
		}
	}
	var pairs []extract.Entry
	for _, plate := range plates {
		if plate.source != constants.SourceTable {
			continue
		}
		for _, heat := range heatsByRow[plate.row] {
			pairs = append(pairs, extract.Entry{PlateNo: plate.value, HeatNo: heat.value})
		}
	}
	return pairs
}

func matchByPosition(plates, heats []candidate) []extract.Entry {
	var positionedHeats []candidate
	for _, h := range heats {
		if h.source == constants.SourcePositioned {
			positionedHeats = append(positionedHeats, h)
		}
	}
	if len(positionedHeats) == 0 {
		return nil
	}

	var pairs []extract.Entry
	for _, plate := range plates {
		if plate.source != constants.SourcePositioned {
			continue
		}
		best := -1
		bestDist := math.Inf(1)
		for i, heat := range positionedHeats {
			dist := math.Abs(plate.y - heat.y)
			if dist <= yTolerance && dist < bestDist {
				best, bestDist = i, dist
			}
		}
		if best >= 0 {
			pairs = append(pairs, extract.Entry{PlateNo: plate.value, HeatNo: positionedHeats[best].value})
		}
	}
	return pairs
}

func matchSequentially(plates, heats []candidate) []extract.Entry {
	up := uniqueValues(plates)
	uh := uniqueValues(heats)

	var pairs []extract.Entry
	n := min(len(up), len(uh))
	for i := 0; i < n; i++ {
		pairs = append(pairs, extract.Entry{PlateNo: up[i], HeatNo: uh[i]})
	}
	for i := n; i < len(up); i++ {
		pairs = append(pairs, extract.Entry{PlateNo: up[i], HeatNo: constants.NotAvailable})
	}
	return pairs
}

func uniqueValues(cands []candidate) []string {
	seen := make(map[string]struct{}, len(cands))
	var out []string
	for _, c := range cands {
		if _, dup := seen[c.value]; dup {
			continue
		}
		seen[c.value] = struct{}{}
		out = append(out, c.value)
	}
	return out
}
