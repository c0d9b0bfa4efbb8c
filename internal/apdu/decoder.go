// Package apdu implements the derived APDU indexer: it decodes
// a raw relay payload via an external NFC message decoder and extracts
// command/response header and status-word fields for analytic queries.
package apdu

// DataSource identifies which side of an NFC exchange a decoded message
// came from.
type DataSource int

const (
	DataSourceUnknown DataSource = iota
	DataSourceCard
	DataSourceReader
)

// Message is the inner NFC message the external decoder yields once it has
// unwrapped the outer envelope.
type Message struct {
	DataSource DataSource
	Data       []byte // the APDU bytes
}

// Decoder is the external NFC protocol decoder. It is explicitly out of
// scope for this system and modeled as a capability interface: if
// no real decoder is wired, NoopDecoder makes the indexer a no-op without
// callers observing a functional difference.
type Decoder interface {
	// Decode unwraps the outer envelope and returns the inner NFC message.
	// ok is false whenever the payload does not decode as an NFC message at
	// any level; this is the normal case for most relay traffic.
	Decode(payload []byte) (msg Message, ok bool)
}

// NoopDecoder never decodes anything. It is the default when no external
// decoder is configured.
type NoopDecoder struct{}

func (NoopDecoder) Decode([]byte) (Message, bool) { return Message{}, false }
