package apdu

import (
	"encoding/hex"
	"strings"

	"github.com/nfcgate/relay/pkg/controlplane/store"
)

// Indexer turns a raw relay payload into a derived ApduEvent row, per the
// extraction rules. A zero Indexer with a nil Decoder panics;
// use New.
type Indexer struct {
	decoder Decoder
}

// New creates an Indexer backed by decoder. Pass apdu.NoopDecoder{} when no
// real NFC decoder is wired.
func New(decoder Decoder) *Indexer {
	if decoder == nil {
		decoder = NoopDecoder{}
	}
	return &Indexer{decoder: decoder}
}

// Index attempts to decode payload and, on success, returns the ApduEvent
// to persist alongside the source LogEvent. ok is false whenever payload
// doesn't decode as an NFC message, or decodes to a zero-length APDU — both
// are normal for non-APDU traffic and must not be treated as errors.
func (idx *Indexer) Index(tsUnix int64, origin, tag string, session *uint8, payload []byte) (event store.ApduEvent, ok bool) {
	msg, decoded := idx.decoder.Decode(payload)
	if !decoded || len(msg.Data) == 0 {
		return store.ApduEvent{}, false
	}

	apduLen := len(msg.Data)
	direction := "C"
	if msg.DataSource == DataSourceReader {
		direction = "R"
	}

	event = store.ApduEvent{
		TSUnix:    tsUnix,
		Direction: direction,
		ApduLen:   apduLen,
		Origin:    origin,
		Tag:       tag,
		Session:   session,
	}

	switch direction {
	case "R":
		if apduLen >= 2 {
			claIns := strUpperHex(msg.Data[:2])
			event.ClaIns = &claIns
		}
		if apduLen >= 4 {
			header4 := strUpperHex(msg.Data[:4])
			event.Header4 = &header4
		}
	case "C":
		if apduLen >= 2 {
			sw := strUpperHex(msg.Data[apduLen-2:])
			event.SW = &sw
		}
	}

	return event, true
}

func strUpperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
