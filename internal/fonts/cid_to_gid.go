package fonts

// CIDToGIDMap resolves a composite font's CID (the character code under
// an Identity-H/V CMap) to the embedded font program's glyph index, per
// spec.md's FontInfo.cid_to_gid_map: either the implicit Identity
// mapping or an explicit /CIDToGIDMap stream table (ISO 32000-1:2008
// Section 9.7.4.2).
type CIDToGIDMap struct {
	// Table holds explicit CID->GID entries, big-endian uint16 pairs as
	// they appear in the /CIDToGIDMap stream. Nil means Identity.
	Table []uint16
}

// NewIdentityCIDToGIDMap returns the default mapping every composite
// font uses unless it names an explicit /CIDToGIDMap stream.
func NewIdentityCIDToGIDMap() *CIDToGIDMap {
	return &CIDToGIDMap{}
}

// NewCIDToGIDMapFromStream builds an explicit mapping from a
// /CIDToGIDMap stream's raw bytes (pairs of big-endian uint16, GID at
// offset 2*CID).
func NewCIDToGIDMapFromStream(data []byte) *CIDToGIDMap {
	table := make([]uint16, len(data)/2)
	for i := range table {
		table[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return &CIDToGIDMap{Table: table}
}

// GID resolves cid to its glyph index. A nil map, or one with no
// explicit table, is the Identity mapping (GID == CID).
func (m *CIDToGIDMap) GID(cid uint16) uint16 {
	if m == nil || m.Table == nil {
		return cid
	}
	if int(cid) >= len(m.Table) {
		return 0
	}
	return m.Table[cid]
}
