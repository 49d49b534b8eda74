package boxes

import (
	"io"

	"github.com/google/uuid"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
	"github.com/mycophonic/isobmff/logging"
)

// readFullInto reads exactly len(buf) bytes, reporting any short read as
// isobmff.ErrUnexpectedEOF.
func readFullInto(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, isobmff.ErrUnexpectedEOF
	}

	return n, nil
}

// readTenc parses a CENC TrackEncryptionBox (ISO/IEC 23001-7 §8.2):
// default per-sample protection parameters for every sample using this
// sinf's scheme, including the CBCS pattern-encryption byte-block counts
// introduced in version 1.
func (st *state) readTenc(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	if _, err := bitstream.ReadU8(body); err != nil { // reserved
		return err
	}

	tenc := &isobmff.Tenc{}

	if version == 0 {
		if _, err := bitstream.ReadU8(body); err != nil { // reserved
			return err
		}
	} else {
		cryptBlock, skipBlock, err := bitstream.ReadNibblePair(body)
		if err != nil {
			return err
		}

		tenc.CryptByteBlockCount = &cryptBlock
		tenc.SkipByteBlockCount = &skipBlock
	}

	isProtected, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	ivSize, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	tenc.IsEncrypted = isProtected
	tenc.IVSize = ivSize

	keyID, err := readKeyID(body)
	if err != nil {
		return err
	}

	tenc.KeyID = keyID

	if isProtected != 0 && ivSize == 0 {
		constantIVSize, err := bitstream.ReadU8(body)
		if err != nil {
			return err
		}

		constantIV := make([]byte, constantIVSize)

		if _, err := readFullInto(body, constantIV); err != nil {
			return err
		}

		tenc.ConstantIV = constantIV
	}

	logging.Logger().Debug().
		Str("kid", uuid.UUID(tenc.KeyID).String()).
		Uint8("iv_size", tenc.IVSize).
		Msg("parsed tenc")

	if st.sinf != nil {
		st.sinf.Tenc = tenc
	}

	return nil
}

func readKeyID(body *bitstream.Substream) ([16]byte, error) {
	var keyID [16]byte

	_, err := readFullInto(body, keyID[:])

	return keyID, err
}
