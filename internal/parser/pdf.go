package parser

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/unalkalkan/PaperVoice/pkg/types"
)

var disableConfigDir sync.Once

// PDFParser extracts text from PDF files. pdfcpu validates the document
// structure; ledongthuc/pdf walks the page content streams.
type PDFParser struct {
	conf *model.Configuration
}

// NewPDFParser creates a new PDF parser
func NewPDFParser() *PDFParser {
	// pdfcpu would otherwise create a config dir under the user's home
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &PDFParser{conf: conf}
}

// Extract validates data as a PDF and returns its text. Pages are walked
// in order 1..N; each page's text runs are joined with a single space and
// followed by a newline. Both libraries panic on some malformed input;
// a panic is returned as a parse error.
func (p *PDFParser) Extract(ctx context.Context, data []byte) (ext *Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext = nil
			err = types.NewError(types.KindParse, "Failed to parse PDF", fmt.Errorf("malformed PDF: %v", r))
		}
	}()

	if len(data) == 0 {
		return nil, types.NewError(types.KindParse, "Failed to parse PDF", fmt.Errorf("empty file"))
	}

	if err := api.Validate(bytes.NewReader(data), p.conf); err != nil {
		return nil, types.NewError(types.KindParse, "Failed to parse PDF", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, types.NewError(types.KindParse, "Failed to parse PDF", err)
	}

	text, err := joinPages(ctx, &ledongthucSource{reader: reader})
	if err != nil {
		return nil, types.NewError(types.KindParse, "Failed to parse PDF", err)
	}

	return &Extraction{
		Text:  text,
		Pages: reader.NumPage(),
	}, nil
}

// pageSource yields the text runs of each page, numbered from 1
type pageSource interface {
	NumPage() int
	PageRuns(num int) ([]string, error)
}

// joinPages concatenates the runs of every page in order
func joinPages(ctx context.Context, src pageSource) (string, error) {
	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		runs, err := src.PageRuns(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(strings.Join(runs, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

type ledongthucSource struct {
	reader *pdf.Reader
}

func (s *ledongthucSource) NumPage() int {
	return s.reader.NumPage()
}

// PageRuns reads one page. The library panics on some malformed content
// streams, so the panic is turned into an error.
func (s *ledongthucSource) PageRuns(num int) (runs []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	page := s.reader.Page(num)
	if page.V.IsNull() {
		return nil, nil
	}
	return textRuns(page.Content().Text), nil
}

// textRuns groups positioned glyphs into one run per line. A run ends when
// the baseline changes; a visible horizontal gap inside a run becomes a space.
// Every line is followed by an empty end-of-line fragment, so once runs are
// joined a single-line page "Intro." reads "Intro. ".
func textRuns(glyphs []pdf.Text) []string {
	var runs []string
	var cur strings.Builder
	var prev *pdf.Text

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			runs = append(runs, s, "")
		}
		cur.Reset()
	}

	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			if math.Abs(g.Y-prev.Y) > baselineTolerance(prev) {
				flush()
			} else if gap := g.X - (prev.X + prev.W); gap > wordGap(prev) && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
				cur.WriteString(" ")
			}
		}
		cur.WriteString(g.S)
		prev = g
	}
	flush()

	return runs
}

func baselineTolerance(t *pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.5
	}
	return 1
}

func wordGap(t *pdf.Text) float64 {
	if t.FontSize > 0 {
		return t.FontSize * 0.2
	}
	return 1
}
