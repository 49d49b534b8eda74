package boxes

import (
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// ftyp is parsed but not retained on MediaContext: this parser's data
// model surfaces tracks and movie/fragment metadata, not the file-type
// brand. Reading it here still validates its shape and keeps the
// dispatcher's containment table honest, and a later caller-facing field
// can be added without touching the box reader.
func (st *state) readFtyp(body *bitstream.Substream) error {
	if _, err := bitstream.ReadFourCC(body); err != nil { // major_brand
		return err
	}

	if _, err := bitstream.ReadU32(body); err != nil { // minor_version
		return err
	}

	// compatible_brands: sequence of FourCC, count derived from remaining
	// length / 4. No need to loop explicitly; the dispatcher discards any
	// trailing bytes once this handler returns, and a truncated final
	// brand (remaining < 4) is tolerated the same way.
	return nil
}
