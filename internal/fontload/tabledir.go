package fontload

import (
	"encoding/binary"
	"fmt"
)

// Font types accepted in the offset table.
const (
	fontTypeCFF      = 0x4f54544f // OTTO
	fontTypeTrueType = 0x00010000
	fontTypeApple    = 0x74727565 // true
)

type tableRecord struct {
	offset uint32
	length uint32
}

func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

// readTableDirectory reads the offset table and the table records following
// it. Checksums are ignored.
func readTableDirectory(font []byte) (map[string]tableRecord, error) {
	if len(font) < 12 {
		return nil, errFontFormat("offset table truncated")
	}
	fontType := binary.BigEndian.Uint32(font)
	if fontType != fontTypeCFF && fontType != fontTypeTrueType && fontType != fontTypeApple {
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", fontType))
	}
	count := int(binary.BigEndian.Uint16(font[4:]))
	if 12+16*count > len(font) {
		return nil, errFontFormat("table record entries")
	}
	tables := make(map[string]tableRecord, count)
	prev := ""
	for i := range count {
		b := font[12+16*i : 12+16*(i+1)]
		tag := string(b[:4])
		if tag < prev {
			return nil, errFontFormat("table order")
		}
		prev = tag
		rec := tableRecord{
			offset: binary.BigEndian.Uint32(b[8:]),
			length: binary.BigEndian.Uint32(b[12:]),
		}
		if rec.offset&3 != 0 { // "all tables must begin on four byte boundries"
			return nil, errFontFormat(fmt.Sprintf("table %s: invalid table offset", tag))
		}
		if uint64(rec.offset)+uint64(rec.length) > uint64(len(font)) {
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, rec.offset, uint64(rec.offset)+uint64(rec.length), len(font)))
		}
		tables[tag] = rec
	}
	return tables, nil
}
