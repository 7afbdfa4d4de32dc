// Package resources resolves the page-tree inheritance rules ISO
// 32000-1:2008 Section 7.7.3.4 defines for /Resources, /MediaBox,
// /CropBox, and /Rotate: a page node that omits one of these inherits
// it from the nearest ancestor /Pages node that defines it.
package resources

import (
	"fmt"

	"github.com/coregx/pdftext/internal/parser"
)

// DefaultMediaBox is used when neither a page nor any of its ancestors
// defines /MediaBox, which ISO 32000-1:2008 treats as a producer error
// but which real-world PDFs occasionally commit; US Letter at 72 dpi is
// the conventional fallback most viewers use.
var DefaultMediaBox = [4]float64{0, 0, 612, 792}

// PageInfo is one page's fully resolved, inheritance-applied attributes.
type PageInfo struct {
	Index     int
	Dict      *parser.Dictionary
	Resources *parser.Dictionary
	MediaBox  [4]float64
	CropBox   [4]float64
	Rotate    int
}

type inherited struct {
	resources *parser.Dictionary
	mediaBox  *[4]float64
	cropBox   *[4]float64
	rotate    *int
}

// GetPageInfo walks the document's page tree from its root, applying
// inheritance along the path to the pageNum-th leaf (0-based, in
// document order).
func GetPageInfo(reader *parser.Reader, pageNum int) (*PageInfo, error) {
	root, err := reader.GetPages()
	if err != nil {
		return nil, fmt.Errorf("resources: get page tree root: %w", err)
	}

	counter := 0
	visited := make(map[*parser.Dictionary]bool)
	info, found, err := walk(reader, root, inherited{}, &counter, pageNum, visited)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("resources: page %d not found (document has %d pages)", pageNum, counter)
	}
	return info, nil
}

// CountPages derives the page count by walking the tree, for documents
// whose root /Pages dictionary omits /Count (ISO 32000-1:2008 requires
// it, but malformed writers sometimes drop it).
func CountPages(reader *parser.Reader) (int, error) {
	root, err := reader.GetPages()
	if err != nil {
		return 0, fmt.Errorf("resources: get page tree root: %w", err)
	}
	if count := root.GetInteger("Count"); count > 0 {
		return int(count), nil
	}

	counter := 0
	visited := make(map[*parser.Dictionary]bool)
	if err := countLeaves(reader, root, &counter, visited); err != nil {
		return 0, err
	}
	return counter, nil
}

func countLeaves(reader *parser.Reader, node *parser.Dictionary, counter *int, visited map[*parser.Dictionary]bool) error {
	if visited[node] {
		return nil // cycle guard
	}
	visited[node] = true

	kids := resolveArray(reader, node.Get("Kids"))
	if kids == nil {
		(*counter)++
		return nil
	}

	for i := 0; i < kids.Len(); i++ {
		child := resolveDict(reader, kids.Get(i))
		if child == nil {
			continue
		}
		if err := countLeaves(reader, child, counter, visited); err != nil {
			return err
		}
	}
	return nil
}

//nolint:cyclop // page-tree descent inherently branches on node type and inherited attributes
func walk(reader *parser.Reader, node *parser.Dictionary, parent inherited, counter *int, target int, visited map[*parser.Dictionary]bool) (*PageInfo, bool, error) {
	if visited[node] {
		return nil, false, nil // cycle guard: a repeated /Pages node terminates this branch
	}
	visited[node] = true

	current := parent
	if res := resolveDict(reader, node.Get("Resources")); res != nil {
		current.resources = res
	}
	if mb := parseRect(reader, node.Get("MediaBox")); mb != nil {
		current.mediaBox = mb
	}
	if cb := parseRect(reader, node.Get("CropBox")); cb != nil {
		current.cropBox = cb
	}
	if rot := node.Get("Rotate"); rot != nil {
		if v, ok := resolveInt(reader, rot); ok {
			r := int(v)
			current.rotate = &r
		}
	}

	kids := resolveArray(reader, node.Get("Kids"))
	if kids == nil {
		// Leaf page node.
		if *counter != target {
			(*counter)++
			return nil, false, nil
		}
		(*counter)++
		return buildPageInfo(target, node, current), true, nil
	}

	for i := 0; i < kids.Len(); i++ {
		child := resolveDict(reader, kids.Get(i))
		if child == nil {
			continue
		}
		info, found, err := walk(reader, child, current, counter, target, visited)
		if err != nil {
			return nil, false, err
		}
		if found {
			return info, true, nil
		}
	}

	return nil, false, nil
}

func buildPageInfo(index int, dict *parser.Dictionary, attrs inherited) *PageInfo {
	info := &PageInfo{
		Index:     index,
		Dict:      dict,
		Resources: attrs.resources,
		MediaBox:  DefaultMediaBox,
	}
	if attrs.mediaBox != nil {
		info.MediaBox = *attrs.mediaBox
	}
	if attrs.cropBox != nil {
		info.CropBox = *attrs.cropBox
	} else {
		info.CropBox = info.MediaBox
	}
	if attrs.rotate != nil {
		info.Rotate = normalizeRotation(*attrs.rotate)
	}
	if info.Resources == nil {
		info.Resources = parser.NewDictionary()
	}
	return info
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

func parseRect(reader *parser.Reader, obj parser.PdfObject) *[4]float64 {
	arr := resolveArray(reader, obj)
	if arr == nil || arr.Len() != 4 {
		return nil
	}
	var rect [4]float64
	for i := 0; i < 4; i++ {
		v, ok := resolveNumber(reader, arr.Get(i))
		if !ok {
			return nil
		}
		rect[i] = v
	}
	return &rect
}

func resolveObj(reader *parser.Reader, obj parser.PdfObject) parser.PdfObject {
	if ref, ok := obj.(*parser.IndirectReference); ok {
		resolved, err := reader.GetObject(ref.Number)
		if err != nil {
			return nil
		}
		return resolved
	}
	return obj
}

func resolveDict(reader *parser.Reader, obj parser.PdfObject) *parser.Dictionary {
	d, _ := resolveObj(reader, obj).(*parser.Dictionary)
	return d
}

func resolveArray(reader *parser.Reader, obj parser.PdfObject) *parser.Array {
	a, _ := resolveObj(reader, obj).(*parser.Array)
	return a
}

func resolveInt(reader *parser.Reader, obj parser.PdfObject) (int64, bool) {
	i, ok := resolveObj(reader, obj).(*parser.Integer)
	if !ok {
		return 0, false
	}
	return i.Value(), true
}

func resolveNumber(reader *parser.Reader, obj parser.PdfObject) (float64, bool) {
	switch v := resolveObj(reader, obj).(type) {
	case *parser.Integer:
		return float64(v.Value()), true
	case *parser.Real:
		return v.Value(), true
	default:
		return 0, false
	}
}
