package pdfio

import (
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// relaxedConf tolerates the validation quirks common in mill-cert
// scans (dangling xref entries, odd producers).
func relaxedConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCopier writes single-page artifacts. The page content is carried
// over from the source document unchanged.
type PageCopier struct{}

// WritePage copies page (1-indexed) of src into a new one-page PDF at dst.
func (PageCopier) WritePage(src string, page int, dst string) error {
	if page < 1 {
		return fmt.Errorf("page %d out of range", page)
	}
	if err := api.TrimFile(src, dst, []string{strconv.Itoa(page)}, relaxedConf()); err != nil {
		return fmt.Errorf("trim page %d of %s: %w", page, src, err)
	}
	return nil
}

// Rotator rotates selected pages of a PDF in place.
type Rotator struct{}

// Rotate applies rotation (degrees, clockwise) to the given 1-indexed
// pages of path, rewriting the file.
func (Rotator) Rotate(path string, rotation int, pages []int) error {
	if len(pages) == 0 {
		return nil
	}
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	if err := api.RotateFile(path, "", rotation, sel, relaxedConf()); err != nil {
		return fmt.Errorf("rotate %v by %d: %w", pages, rotation, err)
	}
	return nil
}
