package extract

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mudrockdev/mudrockreportdiff/report"
)

var (
	headerCells = cascadia.MustCompile("th, td")
	dataCells   = cascadia.MustCompile("td")
)

// extractMarkupTable finds the first heading matching the entry's pattern
// that is followed by a table, and reads that table.
func extractMarkupTable(root *html.Node, headings cascadia.Selector, entry markupEntry, logger *zap.Logger) (*report.Table, bool) {
	if root == nil {
		return nil, false
	}
	for _, h := range headings.MatchAll(root) {
		if !entry.heading.MatchString(dom.TextContent(h)) {
			continue
		}
		if table := findNext(h, "table"); table != nil {
			return readMarkupTable(entry.id, table, logger), true
		}
	}
	return nil, false
}

// readMarkupTable turns a table element into a report table. The first row
// names the columns; a later row is kept only when its td count equals the
// column count. With duplicate column names the last cell wins.
func readMarkupTable(id report.TableID, table *html.Node, logger *zap.Logger) *report.Table {
	t := &report.Table{ID: id}

	rows := dom.GetElementsByTagName(table, "tr")
	if len(rows) == 0 {
		return t
	}

	for _, cell := range headerCells.MatchAll(rows[0]) {
		t.Columns = append(t.Columns, strings.TrimSpace(dom.TextContent(cell)))
	}

	dropped := 0
	for _, tr := range rows[1:] {
		cells := dataCells.MatchAll(tr)
		if len(cells) == 0 || len(cells) != len(t.Columns) {
			dropped++
			continue
		}
		row := make(report.Row, len(cells))
		for i, cell := range cells {
			row[t.Columns[i]] = report.Normalize(dom.TextContent(cell))
		}
		t.Rows = append(t.Rows, row)
	}

	if dropped > 0 {
		logger.Debug("dropped rows with mismatched cell count",
			zap.String("table", string(id)), zap.Int("dropped", dropped), zap.Int("kept", len(t.Rows)))
	}
	return t
}

// findNext returns the first element named tag that follows n in document
// order, descending into n's own children first.
func findNext(n *html.Node, tag string) *html.Node {
	for cur := nextInDocument(n); cur != nil; cur = nextInDocument(cur) {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// elementsText returns the text content of every element matched by sel, in document order.
func elementsText(root *html.Node, sel cascadia.Selector) []string {
	if root == nil {
		return nil
	}
	var texts []string
	for _, n := range sel.MatchAll(root) {
		texts = append(texts, dom.TextContent(n))
	}
	return texts
}
