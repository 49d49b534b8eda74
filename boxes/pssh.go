package boxes

import (
	"encoding/binary"

	"github.com/mycophonic/isobmff"
	"github.com/mycophonic/isobmff/internal/bitstream"
)

// readPssh parses a Protection System Specific Header box (ISO/IEC
// 23001-7 §8.1.1), capturing both its structured fields and a
// reconstructed copy of the whole box (header included) for callers that
// need to hand the raw bytes to a CDM rather than re-derive them.
func (st *state) readPssh(body *bitstream.Substream) error {
	version, err := bitstream.ReadU8(body)
	if err != nil {
		return err
	}

	if _, err := bitstream.ReadU24(body); err != nil { // flags
		return err
	}

	systemID, err := readKeyID(body)
	if err != nil {
		return err
	}

	var keyIDs [][16]byte

	if version > 0 {
		kidCount, err := bitstream.ReadU32(body)
		if err != nil {
			return err
		}

		keyIDs = make([][16]byte, kidCount)

		for i := range keyIDs {
			kid, err := readKeyID(body)
			if err != nil {
				return err
			}

			keyIDs[i] = kid
		}
	}

	dataSize, err := bitstream.ReadU32(body)
	if err != nil {
		return err
	}

	data := make([]byte, dataSize)
	if _, err := readFullInto(body, data); err != nil {
		return err
	}

	st.ctx.Psshs = append(st.ctx.Psshs, isobmff.Pssh{
		SystemID:   systemID,
		KeyIDs:     keyIDs,
		Data:       data,
		BoxContent: reconstructPsshBox(version, systemID, keyIDs, data),
	})

	return nil
}

func reconstructPsshBox(version uint8, systemID [16]byte, keyIDs [][16]byte, data []byte) []byte {
	bodyLen := 4 + 16 + 4 + len(data) // version+flags, system_id, data_size, data
	if version > 0 {
		bodyLen += 4 + 16*len(keyIDs)
	}

	size := 8 + bodyLen
	box := make([]byte, 0, size)

	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(size))
	box = append(box, sizeBuf[:]...)
	box = append(box, "pssh"...)

	var vflags [4]byte
	vflags[0] = version
	box = append(box, vflags[:]...)
	box = append(box, systemID[:]...)

	if version > 0 {
		var countBuf [4]byte
		binary.BigEndian.PutUint32(countBuf[:], uint32(len(keyIDs)))
		box = append(box, countBuf[:]...)

		for _, kid := range keyIDs {
			box = append(box, kid[:]...)
		}
	}

	var dataSizeBuf [4]byte
	binary.BigEndian.PutUint32(dataSizeBuf[:], uint32(len(data)))
	box = append(box, dataSizeBuf[:]...)
	box = append(box, data...)

	return box
}
