package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"strconv"
	"testing"
)

// scriptedRunner fakes pdftoppm and tesseract. pdftoppm writes a tiny
// PNG at the requested prefix; tesseract answers from the script keyed
// by psm, falling back to defaultText.
type scriptedRunner struct {
	failDPIs    map[int]bool
	tessErr     error
	byPSM       map[string]string
	defaultText string

	renderedDPIs []int
	langsSeen    []string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch name {
	case "pdftoppm":
		dpi, _ := strconv.Atoi(args[5])
		r.renderedDPIs = append(r.renderedDPIs, dpi)
		if r.failDPIs[dpi] {
			return nil, []byte("render error"), errors.New("exit status 1")
		}
		prefix := args[len(args)-1]
		if err := writePNG(prefix+".png", image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	case "tesseract":
		if r.tessErr != nil {
			return nil, []byte("tesseract error"), r.tessErr
		}
		psm := argAfter(args, "--psm")
		r.langsSeen = append(r.langsSeen, argAfter(args, "-l"))
		if text, ok := r.byPSM[psm]; ok {
			return []byte(text), nil, nil
		}
		return []byte(r.defaultText), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newTestAdapter(t *testing.T, r Runner) *Adapter {
	t.Helper()
	a := NewAdapter(Config{WorkDir: t.TempDir()}, nil)
	a.runner = r
	return a
}

const richText = "Certificate No. 123456-FP02CD-2024D2-0123\nHeat No. SU30882\nPlate No. PP12345-01\nThickness 12.5 mm"

func TestExtractPageTextPicksBestCandidate(t *testing.T) {
	r := &scriptedRunner{
		byPSM:       map[string]string{"6": richText},
		defaultText: "%%% ??? ###",
	}
	a := newTestAdapter(t, r)

	got := a.ExtractPageText(context.Background(), "cert.pdf", 0, false)
	if got != richText {
		t.Errorf("ExtractPageText() = %q, want the highest-scoring candidate", got)
	}
}

func TestExtractPageTextResolutionFallback(t *testing.T) {
	r := &scriptedRunner{
		failDPIs:    map[int]bool{600: true},
		defaultText: richText,
	}
	a := newTestAdapter(t, r)

	got := a.ExtractPageText(context.Background(), "cert.pdf", 2, false)
	if got != richText {
		t.Errorf("ExtractPageText() = %q, want text from the 300dpi render", got)
	}
	if len(r.renderedDPIs) != 2 || r.renderedDPIs[0] != 600 || r.renderedDPIs[1] != 300 {
		t.Errorf("render attempts = %v, want [600 300]", r.renderedDPIs)
	}
}

func TestExtractPageTextNeverErrors(t *testing.T) {
	t.Run("render fails everywhere", func(t *testing.T) {
		r := &scriptedRunner{failDPIs: map[int]bool{600: true, 300: true}}
		a := newTestAdapter(t, r)
		if got := a.ExtractPageText(context.Background(), "cert.pdf", 0, false); got != "" {
			t.Errorf("ExtractPageText() = %q, want empty", got)
		}
	})
	t.Run("tesseract unavailable", func(t *testing.T) {
		r := &scriptedRunner{tessErr: errors.New("executable not found")}
		a := newTestAdapter(t, r)
		if got := a.ExtractPageText(context.Background(), "cert.pdf", 0, false); got != "" {
			t.Errorf("ExtractPageText() = %q, want empty", got)
		}
	})
}

func TestExtractPageTextMultilingualPack(t *testing.T) {
	r := &scriptedRunner{defaultText: richText}
	a := newTestAdapter(t, r)

	a.ExtractPageText(context.Background(), "cert.pdf", 0, true)
	want := "eng+chi_sim+chi_tra+jpn+kor"
	found := false
	for _, langs := range r.langsSeen {
		if langs == want {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("languages requested %v, want %q among them", r.langsSeen, want)
	}

	r2 := &scriptedRunner{defaultText: richText}
	a2 := newTestAdapter(t, r2)
	a2.ExtractPageText(context.Background(), "cert.pdf", 0, false)
	for _, langs := range r2.langsSeen {
		if langs == want {
			t.Errorf("multilingual pack requested without the flag")
		}
	}
}

func TestNoopReturnsEmpty(t *testing.T) {
	if got := (Noop{}).ExtractPageText(context.Background(), "cert.pdf", 0, true); got != "" {
		t.Errorf("Noop.ExtractPageText() = %q, want empty", got)
	}
}

func TestScoreTextOrdering(t *testing.T) {
	clean := ScoreText(richText)
	noisy := ScoreText("@#%$ ~~ ??? !!!")
	prose := ScoreText("the quick brown fox jumps over the lazy dog")

	if clean <= prose {
		t.Errorf("certificate text %.2f should outscore prose %.2f", clean, prose)
	}
	if prose <= noisy {
		t.Errorf("prose %.2f should outscore symbol noise %.2f", prose, noisy)
	}
	if got := ScoreText(""); got != 0 {
		t.Errorf("ScoreText(\"\") = %v, want 0", got)
	}
	if got := ScoreText("   \n\t "); got != 0 {
		t.Errorf("ScoreText(whitespace) = %v, want 0", got)
	}
}

func TestContainsCJK(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Mill Test Certificate", false},
		{"热轧钢板", true},
		{"ミルシート", true},
		{"밀 시트", true},
		{"SU30882", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsCJK(tt.in); got != tt.want {
			t.Errorf("ContainsCJK(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRasterVariants(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	variants := rasterVariants(src)
	if len(variants) != 5 {
		t.Fatalf("got %d variants, want 5", len(variants))
	}
	names := []string{"denoised", "contrast", "binary", "sharp", "gray"}
	for i, v := range variants {
		if v.name != names[i] {
			t.Errorf("variant %d = %q, want %q", i, v.name, names[i])
		}
		if v.img == nil {
			t.Errorf("variant %q has nil image", v.name)
		}
		// Small renders are upscaled before preprocessing.
		if got := v.img.Bounds().Dx(); got != 16 {
			t.Errorf("variant %q width = %d, want 16 after 2x upscale", v.name, got)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := t.TempDir() + "/out.png"
	if err := writePNG(path, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("writePNG() = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("png missing: %v", err)
	}
}
