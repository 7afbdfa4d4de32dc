package parser

import (
	"fmt"
	"strings"
)

// PdfObject is the tagged-value type underlying every PDF object: null,
// boolean, integer, real, string, name, array, dictionary, stream, or
// indirect reference. Equality between PdfObjects is structural, except
// for IndirectReference, which compares by (Number, Generation).
//
// Reference: PDF 1.7 specification, Section 7.3 (Objects).
type PdfObject interface {
	// String returns a debug representation, not PDF syntax.
	String() string
}

// Null represents the PDF null object.
type Null struct{}

// NewNull returns the PDF null object.
func NewNull() *Null { return &Null{} }

func (n *Null) String() string { return "null" }

// Boolean represents a PDF boolean object.
type Boolean struct{ value bool }

// NewBoolean creates a Boolean object.
func NewBoolean(v bool) *Boolean { return &Boolean{value: v} }

// Value returns the underlying bool.
func (b *Boolean) Value() bool { return b.value }

func (b *Boolean) String() string { return fmt.Sprintf("%t", b.value) }

// Integer represents a PDF integer numeric object.
type Integer struct{ value int64 }

// NewInteger creates an Integer object.
func NewInteger(v int64) *Integer { return &Integer{value: v} }

// Value returns the underlying int64.
func (i *Integer) Value() int64 { return i.value }

func (i *Integer) String() string { return fmt.Sprintf("%d", i.value) }

// Real represents a PDF real numeric object.
type Real struct{ value float64 }

// NewReal creates a Real object.
func NewReal(v float64) *Real { return &Real{value: v} }

// Value returns the underlying float64.
func (r *Real) Value() float64 { return r.value }

func (r *Real) String() string { return fmt.Sprintf("%g", r.value) }

// String represents a PDF literal string object `(...)`. The value is
// stored as already-unescaped bytes (octal escapes and line
// continuations resolved by the lexer), which is why Bytes returns raw
// bytes rather than re-decoding.
type String struct{ value string }

// NewString creates a String object from already-unescaped bytes.
func NewString(v string) *String { return &String{value: v} }

// Value returns the string's unescaped content.
func (s *String) Value() string { return s.value }

// Bytes returns the string's unescaped content as raw bytes. Literal
// PDF strings are byte strings, not necessarily valid UTF-8 text; the
// font layer is responsible for interpreting them via the active
// encoding.
func (s *String) Bytes() []byte { return []byte(s.value) }

func (s *String) String() string { return fmt.Sprintf("(%s)", s.value) }

// HexString represents a PDF hex string object `<...>`. The value is
// stored as already-decoded bytes.
type HexString struct{ value string }

// NewHexString creates a HexString object from already-decoded bytes.
func NewHexString(v string) *HexString { return &HexString{value: v} }

// Value returns the decoded content.
func (h *HexString) Value() string { return h.value }

// Bytes returns the decoded content as raw bytes.
func (h *HexString) Bytes() []byte { return []byte(h.value) }

func (h *HexString) String() string { return fmt.Sprintf("<%x>", h.value) }

// Name represents a PDF name object `/Foo`, stored without the leading
// slash and with `#hh` escapes already resolved.
type Name struct{ value string }

// NewName creates a Name object. The leading slash, if present, is
// stripped so callers always compare against the bare name.
func NewName(v string) *Name {
	return &Name{value: strings.TrimPrefix(v, "/")}
}

// Value returns the bare name (without leading slash).
func (n *Name) Value() string { return n.value }

func (n *Name) String() string { return "/" + n.value }

// Array represents an ordered sequence of PdfObject.
type Array struct{ items []PdfObject }

// NewArray creates an empty Array.
func NewArray() *Array { return &Array{} }

// Append adds an item to the end of the array.
func (a *Array) Append(obj PdfObject) { a.items = append(a.items, obj) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// Get returns the element at index i, or nil if out of range.
func (a *Array) Get(i int) PdfObject {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Set replaces the element at index i. Returns an error if out of range.
func (a *Array) Set(i int, obj PdfObject) error {
	if i < 0 || i >= len(a.items) {
		return fmt.Errorf("array index %d out of range (len %d)", i, len(a.items))
	}
	a.items[i] = obj
	return nil
}

// Items returns the underlying slice; callers must not mutate it.
func (a *Array) Items() []PdfObject { return a.items }

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range a.items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Dictionary represents a PDF dictionary: a mapping from name to
// PdfObject. Insertion order is preserved for deterministic String()
// output, but per spec.md §3 it carries no semantic weight.
type Dictionary struct {
	keys   []string
	values map[string]PdfObject
}

// NewDictionary creates an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]PdfObject)}
}

// Get returns the value for key, or nil if absent.
func (d *Dictionary) Get(key string) PdfObject {
	return d.values[key]
}

// Set assigns key to value, appending key to the insertion order the
// first time it is seen.
func (d *Dictionary) Set(key string, value PdfObject) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []string {
	return d.keys
}

// Len returns the number of keys.
func (d *Dictionary) Len() int { return len(d.keys) }

// GetInteger returns the integer value of key, or 0 if absent or not an
// Integer. Many callers treat 0 as "not present," which matches how PDF
// counters and offsets are used throughout this package.
func (d *Dictionary) GetInteger(key string) int64 {
	if i, ok := d.values[key].(*Integer); ok {
		return i.Value()
	}
	return 0
}

// GetName returns the Name object for key, or nil if absent or not a
// Name.
func (d *Dictionary) GetName(key string) *Name {
	if n, ok := d.values[key].(*Name); ok {
		return n
	}
	return nil
}

// GetString returns the decoded text of a String or HexString value for
// key, or "" if absent or of another type.
func (d *Dictionary) GetString(key string) string {
	switch v := d.values[key].(type) {
	case *String:
		return v.Value()
	case *HexString:
		return v.Value()
	default:
		return ""
	}
}

// GetArray returns the Array object for key, or nil if absent or not an
// Array.
func (d *Dictionary) GetArray(key string) *Array {
	if a, ok := d.values[key].(*Array); ok {
		return a
	}
	return nil
}

// GetDictionary returns the Dictionary value for key, or nil if absent
// or not a Dictionary.
func (d *Dictionary) GetDictionary(key string) *Dictionary {
	if sub, ok := d.values[key].(*Dictionary); ok {
		return sub
	}
	return nil
}

func (d *Dictionary) String() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for _, k := range d.keys {
		sb.WriteString(" /")
		sb.WriteString(k)
		sb.WriteByte(' ')
		sb.WriteString(d.values[k].String())
	}
	sb.WriteString(" >>")
	return sb.String()
}

// Stream represents a dictionary paired with a lazily-decoded byte
// payload. Decoding (filter application) is the Stream Decoder's (L2)
// responsibility; Stream only holds the raw, as-read bytes.
type Stream struct {
	dict    *Dictionary
	content []byte
}

// NewStream creates a Stream from its dictionary and raw content.
func NewStream(dict *Dictionary, content []byte) *Stream {
	return &Stream{dict: dict, content: content}
}

// Dictionary returns the stream's dictionary.
func (s *Stream) Dictionary() *Dictionary { return s.dict }

// Content returns the raw (not filter-decoded) stream bytes.
func (s *Stream) Content() []byte { return s.content }

func (s *Stream) String() string {
	return fmt.Sprintf("%s stream(%d bytes)", s.dict.String(), len(s.content))
}

// IndirectReference represents an unresolved `N G R` reference. Two
// references are equal by (Number, Generation), per spec.md §3.
type IndirectReference struct {
	Number     int
	Generation int
}

// NewIndirectReference creates an IndirectReference.
func NewIndirectReference(number, generation int) *IndirectReference {
	return &IndirectReference{Number: number, Generation: generation}
}

func (r *IndirectReference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject represents a fully parsed `N G obj ... endobj` body:
// an object number, generation, and its direct object value.
type IndirectObject struct {
	Number     int
	Generation int
	Object     PdfObject
}

// NewIndirectObject creates an IndirectObject.
func NewIndirectObject(number, generation int, object PdfObject) *IndirectObject {
	return &IndirectObject{Number: number, Generation: generation, Object: object}
}

func (o *IndirectObject) String() string {
	return fmt.Sprintf("%d %d obj %s endobj", o.Number, o.Generation, o.Object.String())
}
