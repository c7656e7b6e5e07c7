package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/snsrecords/pkg/codec"
)

// ExampleRecordCodec_basic demonstrates decoding a record account
func ExampleRecordCodec_basic() {
	rc := codec.NewRecordCodec()

	header := codec.RecordHeader{
		StalenessValidation: uint16(codec.ValidationSolana),
		ContentLength:       5,
	}
	account, err := rc.Encode(nil, header, make([]byte, 32), nil, []byte("hello"))
	if err != nil {
		log.Fatal(err)
	}

	record, err := rc.Decode(account)
	if err != nil {
		log.Fatal(err)
	}

	sid, _ := record.StalenessID()
	roa, _ := record.RoAID()
	content, _ := record.Content()

	fmt.Printf("Account: %d bytes\n", len(account))
	fmt.Printf("Staleness: %s (%d bytes)\n", record.Header.Staleness(), len(sid))
	fmt.Printf("RoA: %s (%d bytes)\n", record.Header.RightOfAssociation(), len(roa))
	fmt.Printf("Content: %s\n", content)

	// Output:
	// Account: 141 bytes
	// Staleness: solana (32 bytes)
	// RoA: none (0 bytes)
	// Content: hello
}

// ExampleRecordCodec_errorHandling demonstrates decode errors
func ExampleRecordCodec_errorHandling() {
	rc := codec.NewRecordCodec()

	_, err := rc.Decode([]byte{0x01, 0x02, 0x03})
	fmt.Printf("Decode error: %v\n", err)

	// Output:
	// Decode error: decode header at offset 96: want 104, got 3: codec: truncated data
}

// ExampleWidth lists the width of every validation kind
func ExampleWidth() {
	for _, v := range []codec.Validation{
		codec.ValidationNone,
		codec.ValidationSolana,
		codec.ValidationEthereum,
		codec.ValidationUnverifiedSolana,
	} {
		w, _ := codec.Width(v)
		fmt.Printf("%s: %d\n", v, w)
	}

	// Output:
	// none: 0
	// solana: 32
	// ethereum: 20
	// unverified-solana: 32
}
