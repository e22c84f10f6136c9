package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

// ErrUnreadable is returned when a document cannot be read or parsed at all.
var ErrUnreadable = errors.New("report is unreadable")

// Extractor pulls catalog tables and metadata out of one report document.
// Extract reports false when the table is not in the document.
type Extractor interface {
	Engine() report.Engine
	Format() report.Format
	Tables() []report.TableID
	Metadata() report.Metadata
	Extract(id report.TableID) (*report.Table, bool)
}

// markupEntry locates a table in an HTML report by heading text.
type markupEntry struct {
	id      report.TableID
	heading *regexp.Regexp
}

// variant holds everything engine specific: catalogs and metadata readers.
type variant struct {
	engine         report.Engine
	headings       cascadia.Selector
	markup         []markupEntry
	text           []textSection
	markupMetadata func(root *html.Node) report.Metadata
	textMetadata   func(doc string) report.Metadata
}

// document is one report held in memory. root is set for markup documents.
type document struct {
	text string
	root *html.Node
}

type extractor struct {
	variant *variant
	format  report.Format
	doc     document
	logger  *zap.Logger
}

type options struct {
	logger *zap.Logger
}

// Option configures New and Parse.
type Option func(*options)

// WithLogger sets the logger used for debug output about skipped tables and rows.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// variantFor returns the extraction variant for an engine
func variantFor(engine report.Engine) (*variant, error) {
	switch engine {
	case report.EngineAWR:
		return awrVariant, nil
	case report.EnginePgProfile:
		return pgProfileVariant, nil
	default:
		return nil, fmt.Errorf("unsupported report engine: %s", engine)
	}
}

// New detects the document's format and engine and returns the matching extractor.
func New(doc string, opts ...Option) (Extractor, error) {
	return NewWithDetection(doc, report.Detect(doc), opts...)
}

// NewWithDetection returns an extractor for a document whose format and engine are already known.
func NewWithDetection(doc string, det report.Detection, opts ...Option) (Extractor, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	v, err := variantFor(det.Engine)
	if err != nil {
		return nil, err
	}

	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	ex := &extractor{
		variant: v,
		format:  det.Format,
		doc:     document{text: doc},
		logger:  o.logger.With(zap.String("engine", string(det.Engine)), zap.String("format", string(det.Format))),
	}

	if det.Format == report.Markup {
		root, err := html.Parse(strings.NewReader(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		ex.doc.root = root
	}
	return ex, nil
}

func (e *extractor) Engine() report.Engine { return e.variant.engine }
func (e *extractor) Format() report.Format { return e.format }

// Tables lists the catalog of the engine for the document's format, in extraction order.
func (e *extractor) Tables() []report.TableID {
	var ids []report.TableID
	if e.format == report.Markup {
		for _, m := range e.variant.markup {
			ids = append(ids, m.id)
		}
		return ids
	}
	for _, s := range e.variant.text {
		ids = append(ids, s.id)
	}
	return ids
}

func (e *extractor) Metadata() report.Metadata {
	if e.format == report.Markup {
		return e.variant.markupMetadata(e.doc.root)
	}
	return e.variant.textMetadata(e.doc.text)
}

func (e *extractor) Extract(id report.TableID) (*report.Table, bool) {
	var (
		table *report.Table
		found bool
	)
	if e.format == report.Markup {
		for _, m := range e.variant.markup {
			if m.id == id {
				table, found = extractMarkupTable(e.doc.root, e.variant.headings, m, e.logger)
				break
			}
		}
	} else {
		for _, s := range e.variant.text {
			if s.id == id {
				table, found = extractTextTable(e.doc.text, s)
				break
			}
		}
	}

	if !found || table.Empty() {
		e.logger.Debug("table not found", zap.String("table", string(id)))
		return nil, false
	}
	return table, true
}

// Parse reads a whole report and extracts every catalog table it contains.
// Only a document that cannot be read is an error; missing tables are simply
// absent from the model.
func Parse(r io.Reader, opts ...Option) (*report.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return ParseString(strings.ToValidUTF8(string(data), ""), opts...)
}

// ParseFile parses the report stored at path.
func ParseFile(path string, opts ...Option) (*report.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	model, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}

// ParseString is Parse for a document already in memory.
func ParseString(doc string, opts ...Option) (*report.Model, error) {
	ex, err := New(doc, opts...)
	if err != nil {
		return nil, err
	}

	model := &report.Model{
		Metadata: ex.Metadata(),
		Format:   ex.Format(),
		Tables:   make(map[report.TableID]*report.Table),
	}
	for _, id := range ex.Tables() {
		if t, ok := ex.Extract(id); ok {
			model.Tables[id] = t
		}
	}
	return model, nil
}
