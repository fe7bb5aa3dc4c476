package persist

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/mwantia/catalog"
)

// snapshot is the serialized form of a catalog. Records carry their
// catalog order, so decoding rebuilds identical owner and name iteration
// order.
type snapshot struct {
	Base    string             `cbor:"1,keyasint"`
	Records []*catalog.Dataset `cbor:"2,keyasint"`
}

// encMode uses Core Deterministic Encoding so the same catalog always
// serializes to identical bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR; unknown fields are ignored for forward
// compatibility with newer snapshot layouts.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("persist: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("persist: CBOR decoder initialization failed: " + err.Error())
	}
}

func takeSnapshot(cat *catalog.Catalog) *snapshot {
	snap := &snapshot{Base: cat.Base()}
	for record := range cat.Records() {
		snap.Records = append(snap.Records, record)
	}

	return snap
}

func (s *snapshot) restore() *catalog.Catalog {
	cat := catalog.New(s.Base)
	cat.PutAll(s.Records)

	return cat
}
