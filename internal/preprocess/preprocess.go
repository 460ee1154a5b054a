// Package preprocess corrects document orientation ahead of
// extraction. It is strictly best-effort: any failure falls back to
// the original, unmodified document.
package preprocess

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/MayankNinaniya725/PDF-Parser-sub000/internal/extract"
)

// tableIndicators are header keywords that mark a tabular certificate
// layout. Their count per page drives the rotation decision.
var tableIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Size\s+Product\s+No\.`),
	regexp.MustCompile(`(?i)Heat\s+No\.`),
	regexp.MustCompile(`(?i)Plate\s+No\.`),
	regexp.MustCompile(`(?i)Certificate\s+No\.`),
	regexp.MustCompile(`(?i)\|\s*Size\s*\|`),
	regexp.MustCompile(`(?i)\|\s*Product\s+No\.\s*\|`),
	regexp.MustCompile(`(?i)\|\s*Heat\s+No\.\s*\|`),
}

// domainIndicators are mill-certificate phrases whose presence on a
// landscape page without table structure hints at a sideways scan.
var domainIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)POSCO\s+INTERNATIONAL`),
	regexp.MustCompile(`(?i)Mill\s+Test\s+Certificate`),
	regexp.MustCompile(`(?i)Chemical\s+Composition`),
	regexp.MustCompile(`(?i)Tensile\s+Test`),
}

// Rotator rewrites selected pages of a PDF with the given rotation.
type Rotator interface {
	Rotate(path string, rotation int, pages []int) error
}

// Preprocessor detects and corrects page orientation.
type Preprocessor struct {
	open   extract.Opener
	rotate Rotator
	logger *slog.Logger
}

func New(open extract.Opener, rotate Rotator, logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{open: open, rotate: rotate, logger: logger}
}

// DetectOrientation scores every page of the document. A page whose
// analysis fails defaults to rotation 0 with confidence 0.
func (p *Preprocessor) DetectOrientation(doc extract.Document) []extract.OrientationInfo {
	infos := make([]extract.OrientationInfo, 0, doc.PageCount())
	for n := 1; n <= doc.PageCount(); n++ {
		info := extract.OrientationInfo{Page: n}
		pc, err := doc.Page(n)
		if err != nil {
			p.logger.Error("orientation analysis failed", "page", n, "error", err)
			infos = append(infos, info)
			continue
		}
		info.Width, info.Height = pc.Width, pc.Height
		info.Landscape = pc.Width > pc.Height

		tableMatches := 0
		for _, re := range tableIndicators {
			if re.MatchString(pc.Text) {
				tableMatches++
				info.TableIndicators = append(info.TableIndicators, re.String())
			}
		}
		domainMatches := 0
		for _, re := range domainIndicators {
			if re.MatchString(pc.Text) {
				domainMatches++
			}
		}

		switch {
		case !info.Landscape && tableMatches > 2:
			// Tabular content crammed into portrait: rotate to landscape.
			info.SuggestedRotation = 90
			info.Confidence = min(0.8, float64(tableMatches)*0.2)
		case info.Landscape && tableMatches >= 3:
			// Clear table structure already in landscape.
			info.Confidence = min(0.9, float64(tableMatches)*0.25)
		case info.Landscape && tableMatches < 2 && domainMatches > 0:
			info.SuggestedRotation = -90
			info.Confidence = min(0.6, float64(domainMatches)*0.15)
		}
		infos = append(infos, info)
	}
	return infos
}

// Prepare returns the path extraction should read. When any page needs
// rotation a corrected temp copy is produced; the caller must invoke
// cleanup regardless of outcome. On any failure the original path is
// returned untouched.
func (p *Preprocessor) Prepare(ctx context.Context, path string) (string, func(), bool) {
	noop := func() {}
	if err := ctx.Err(); err != nil {
		return path, noop, false
	}

	doc, err := p.open(path)
	if err != nil {
		p.logger.Error("preprocessing open failed, using original", "path", path, "error", err)
		return path, noop, false
	}
	infos := p.DetectOrientation(doc)
	if cerr := doc.Close(); cerr != nil {
		p.logger.Warn("close document after orientation analysis", "error", cerr)
	}

	byAngle := map[int][]int{}
	for _, info := range infos {
		if info.SuggestedRotation != 0 {
			byAngle[info.SuggestedRotation] = append(byAngle[info.SuggestedRotation], info.Page)
		}
	}
	if len(byAngle) == 0 {
		p.logger.Debug("document orientation ok, no preprocessing needed", "path", path)
		return path, noop, false
	}

	tmpDir, err := os.MkdirTemp("", "certx-prep-*")
	if err != nil {
		p.logger.Error("preprocessing temp dir failed, using original", "error", err)
		return path, noop, false
	}
	cleanup := func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			p.logger.Warn("cleanup preprocessed files", "dir", tmpDir, "error", rerr)
		}
	}

	corrected := filepath.Join(tmpDir, fmt.Sprintf("corrected_%s.pdf", uuid.NewString()))
	if err := copyFile(path, corrected); err != nil {
		p.logger.Error("preprocessing copy failed, using original", "error", err)
		cleanup()
		return path, noop, false
	}
	for angle, pages := range byAngle {
		if err := p.rotate.Rotate(corrected, angle, pages); err != nil {
			p.logger.Error("rotation failed, using original", "angle", angle, "pages", pages, "error", err)
			cleanup()
			return path, noop, false
		}
		p.logger.Info("rotated pages", "angle", angle, "pages", pages)
	}
	return corrected, cleanup, true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
