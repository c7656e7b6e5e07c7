package codec

import (
	"fmt"
	"math"
)

// NameRegistryLen is the size of the name service header that precedes the
// records program header in every record account.
const NameRegistryLen = 96

// MinRecordLen is the smallest account that can hold a record.
const MinRecordLen = NameRegistryLen + HeaderLen

// Record is a decoded record account
type Record struct {
	Header RecordHeader // Records program header
	Data   []byte       // Body: staleness id, RoA id, content
}

// RecordCodec handles serialization and deserialization of record accounts
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Decode parses an account buffer into a Record.
// The returned record aliases data.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) < MinRecordLen {
		return nil, truncated("header", NameRegistryLen, MinRecordLen, len(data))
	}

	header, err := DecodeHeader(data[NameRegistryLen:MinRecordLen])
	if err != nil {
		return nil, err
	}

	r := &Record{Header: header, Data: data[MinRecordLen:]}
	if err := r.checkBody(); err != nil {
		return nil, err
	}
	return r, nil
}

// Encode assembles an account buffer. prefix may be nil, in which case the
// name registry segment is zero filled. The id widths must match the header's
// validation kinds and content must be exactly ContentLength bytes.
func (c *RecordCodec) Encode(prefix []byte, header RecordHeader, stalenessID, roaID, content []byte) ([]byte, error) {
	if len(prefix) > NameRegistryLen {
		return nil, fmt.Errorf("name registry prefix too long: %d > %d", len(prefix), NameRegistryLen)
	}
	w, err := header.widths()
	if err != nil {
		return nil, err
	}
	if len(stalenessID) != w[0] {
		return nil, &DecodeError{Field: "staleness_id", Offset: -1, Want: w[0], Got: len(stalenessID), Err: ErrWidthMismatch}
	}
	if len(roaID) != w[1] {
		return nil, &DecodeError{Field: "roa_id", Offset: -1, Want: w[1], Got: len(roaID), Err: ErrWidthMismatch}
	}
	if uint64(len(content)) > math.MaxUint32 || uint32(len(content)) != header.ContentLength {
		return nil, &DecodeError{Field: "content", Offset: -1, Want: int(header.ContentLength), Got: len(content), Err: ErrContentLengthMismatch}
	}

	buf := make([]byte, MinRecordLen+w[0]+w[1]+len(content))
	copy(buf, prefix)
	copy(buf[NameRegistryLen:], header.Encode())
	off := MinRecordLen
	off += copy(buf[off:], stalenessID)
	off += copy(buf[off:], roaID)
	copy(buf[off:], content)
	return buf, nil
}

// checkBody verifies the body holds every segment the header declares.
func (r *Record) checkBody() error {
	w, err := r.Header.widths()
	if err != nil {
		return err
	}
	if len(r.Data) < w[0] {
		return truncated("staleness_id", MinRecordLen, w[0], len(r.Data))
	}
	if len(r.Data) < w[0]+w[1] {
		return truncated("roa_id", MinRecordLen+w[0], w[1], len(r.Data)-w[0])
	}
	rest := len(r.Data) - w[0] - w[1]
	if uint64(rest) < uint64(r.Header.ContentLength) {
		return truncated("content", MinRecordLen+w[0]+w[1], int(r.Header.ContentLength), rest)
	}
	return nil
}

// StalenessID returns the staleness id, empty when the kind is None.
func (r *Record) StalenessID() ([]byte, error) {
	w, err := r.Header.widths()
	if err != nil {
		return nil, err
	}
	if len(r.Data) < w[0] {
		return nil, truncated("staleness_id", MinRecordLen, w[0], len(r.Data))
	}
	return r.Data[:w[0]], nil
}

// RoAID returns the right of association id, empty when the kind is None.
func (r *Record) RoAID() ([]byte, error) {
	w, err := r.Header.widths()
	if err != nil {
		return nil, err
	}
	end := w[0] + w[1]
	if len(r.Data) < end {
		return nil, truncated("roa_id", MinRecordLen+w[0], w[1], len(r.Data)-w[0])
	}
	return r.Data[w[0]:end], nil
}

// Content returns every byte after the ids. A record that was allocated but
// not yet written reports ContentLength 0 while still carrying its reserved
// space; use Validate to require an exact match.
func (r *Record) Content() ([]byte, error) {
	start, err := r.Header.IDsLen()
	if err != nil {
		return nil, err
	}
	if len(r.Data) < start {
		return nil, truncated("content", MinRecordLen+start, start, len(r.Data))
	}
	return r.Data[start:], nil
}

// Validate checks that the content segment is exactly ContentLength bytes.
func (r *Record) Validate() error {
	content, err := r.Content()
	if err != nil {
		return err
	}
	if uint64(len(content)) != uint64(r.Header.ContentLength) {
		start, _ := r.Header.IDsLen()
		return &DecodeError{
			Field:  "content",
			Offset: MinRecordLen + start,
			Want:   int(r.Header.ContentLength),
			Got:    len(content),
			Err:    ErrContentLengthMismatch,
		}
	}
	return nil
}

// Size returns the encoded size of the account
func (r *Record) Size() int {
	return MinRecordLen + len(r.Data)
}

// View is a flattened copy of a record's segments.
type View struct {
	Staleness          Validation
	RightOfAssociation Validation
	StalenessID        []byte
	RoAID              []byte
	Content            []byte
}

// View slices every segment once.
func (r *Record) View() (View, error) {
	sid, err := r.StalenessID()
	if err != nil {
		return View{}, err
	}
	rid, err := r.RoAID()
	if err != nil {
		return View{}, err
	}
	content, err := r.Content()
	if err != nil {
		return View{}, err
	}
	return View{
		Staleness:          r.Header.Staleness(),
		RightOfAssociation: r.Header.RightOfAssociation(),
		StalenessID:        sid,
		RoAID:              rid,
		Content:            content,
	}, nil
}
