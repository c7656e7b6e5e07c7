package codec

import "encoding/binary"

// HeaderLen is the encoded size of RecordHeader.
const HeaderLen = 8

// RecordHeader is the records program header that follows the name registry data.
type RecordHeader struct {
	StalenessValidation          uint16 // Validation of the staleness id
	RightOfAssociationValidation uint16 // Validation of the RoA id
	ContentLength                uint32 // Length of the content segment only
}

// DecodeHeader decodes exactly HeaderLen bytes.
// Format: [Staleness(2)][RoA(2)][ContentLength(4)]
func DecodeHeader(data []byte) (RecordHeader, error) {
	if len(data) != HeaderLen {
		return RecordHeader{}, truncated("header", -1, HeaderLen, len(data))
	}
	return RecordHeader{
		StalenessValidation:          binary.LittleEndian.Uint16(data[0:2]),
		RightOfAssociationValidation: binary.LittleEndian.Uint16(data[2:4]),
		ContentLength:                binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// Encode serializes the header into HeaderLen bytes.
func (h RecordHeader) Encode() []byte {
	buf := make([]byte, HeaderLen)
	binary.LittleEndian.PutUint16(buf[0:], h.StalenessValidation)
	binary.LittleEndian.PutUint16(buf[2:], h.RightOfAssociationValidation)
	binary.LittleEndian.PutUint32(buf[4:], h.ContentLength)
	return buf
}

// Staleness returns the staleness validation kind.
func (h RecordHeader) Staleness() Validation {
	return Validation(h.StalenessValidation)
}

// RightOfAssociation returns the RoA validation kind.
func (h RecordHeader) RightOfAssociation() Validation {
	return Validation(h.RightOfAssociationValidation)
}

// Validate checks both validation kinds.
func (h RecordHeader) Validate() error {
	if _, err := h.widths(); err != nil {
		return err
	}
	return nil
}

// IDsLen returns the combined width of the staleness and RoA ids.
func (h RecordHeader) IDsLen() (int, error) {
	w, err := h.widths()
	if err != nil {
		return 0, err
	}
	return w[0] + w[1], nil
}

func (h RecordHeader) widths() ([2]int, error) {
	ws, err := Width(h.Staleness())
	if err != nil {
		return [2]int{}, &DecodeError{
			Field:  "header.staleness_validation",
			Offset: NameRegistryLen,
			Got:    int(h.StalenessValidation),
			Err:    ErrInvalidValidation,
		}
	}
	wr, err := Width(h.RightOfAssociation())
	if err != nil {
		return [2]int{}, &DecodeError{
			Field:  "header.right_of_association_validation",
			Offset: NameRegistryLen + 2,
			Got:    int(h.RightOfAssociationValidation),
			Err:    ErrInvalidValidation,
		}
	}
	return [2]int{ws, wr}, nil
}
