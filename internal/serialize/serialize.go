// Package serialize implements the persisted symbol-store format from
// spec §6 ("Persisted: the binary symbol-store file"): a tagged,
// versioned container holding one length-prefixed, zstd-compressed
// gob stream of records, followed by a single blake2b digest of that
// compressed payload. Grounded on the
// teacher's internal/index package (index-meta.json's magic+version
// header and lock-file discipline) and internal/compression (the
// length-budget/truncation style of thinking about serialized
// payloads), adapted from JSON-over-a-lockfile to a binary
// gob-encoded, compressed, checksummed container since a symbol store
// is orders of magnitude larger than the teacher's index metadata.
package serialize

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"mrdocs/internal/corpus"
	"mrdocs/internal/cxxtype"
	"mrdocs/internal/doccomment"
	"mrdocs/internal/merrors"
	"mrdocs/internal/symbol"
)

// magic identifies a mrdocs persisted symbol-store file.
var magic = [4]byte{'M', 'R', 'D', 'S'}

// FormatVersion is bumped whenever the on-disk record layout changes
// in a way older readers cannot tolerate.
const FormatVersion uint32 = 1

// record is the gob-encoded unit stored per symbol; gob is used rather
// than a hand-rolled binary layout because Symbol.Body is a closed set
// of concrete types registered once at package init, which gob
// handles natively through interface registration.
type record struct {
	Sym *symbol.Symbol
}

func init() {
	gob.Register(&symbol.Namespace{})
	gob.Register(&symbol.Record{})
	gob.Register(&symbol.Specialization{})
	gob.Register(&symbol.Function{})
	gob.Register(&symbol.Overloads{})
	gob.Register(&symbol.Enum{})
	gob.Register(&symbol.EnumConstant{})
	gob.Register(&symbol.Typedef{})
	gob.Register(&symbol.Variable{})
	gob.Register(&symbol.Field{})
	gob.Register(&symbol.Friend{})
	gob.Register(&symbol.NamespaceAlias{})
	gob.Register(&symbol.Using{})
	gob.Register(&symbol.Concept{})
	gob.Register(&symbol.Guide{})

	// Every concrete implementor of an interface-typed field nested
	// inside a Body must also be registered, or gob rejects it at
	// encode time (spec §6's persisted format covers the whole Symbol
	// tree, not just the top-level Body tag).
	gob.Register(&cxxtype.Named{})
	gob.Register(&cxxtype.Decltype{})
	gob.Register(&cxxtype.Auto{})
	gob.Register(&cxxtype.LValueReference{})
	gob.Register(&cxxtype.RValueReference{})
	gob.Register(&cxxtype.Pointer{})
	gob.Register(&cxxtype.MemberPointer{})
	gob.Register(&cxxtype.Array{})
	gob.Register(&cxxtype.Function{})
	gob.Register(&cxxtype.Pack{})

	gob.Register(&doccomment.Brief{})
	gob.Register(&doccomment.Paragraph{})
	gob.Register(&doccomment.Returns{})
	gob.Register(&doccomment.Param{})
	gob.Register(&doccomment.TParam{})
	gob.Register(&doccomment.Throws{})
	gob.Register(&doccomment.Precondition{})
	gob.Register(&doccomment.Postcondition{})
	gob.Register(&doccomment.Admonition{})
	gob.Register(&doccomment.Heading{})
	gob.Register(&doccomment.Code{})
	gob.Register(&doccomment.List{})
	gob.Register(&doccomment.See{})
	gob.Register(&doccomment.Details{})

	gob.Register(&doccomment.Text{})
	gob.Register(&doccomment.Styled{})
	gob.Register(&doccomment.Link{})
	gob.Register(&doccomment.Reference{})
	gob.Register(&doccomment.CopyDetails{})
	gob.Register(&doccomment.Math{})
	gob.Register(&doccomment.SoftBreak{})
	gob.Register(&doccomment.LineBreak{})
	gob.Register(&doccomment.Image{})
}

// Write serializes every symbol in store to w as one zstd-compressed
// gob stream, preceded by a fixed magic+version header and followed by
// a whole-payload blake2b-256 digest for integrity (spec §6,
// "Persisted" format must detect truncation/corruption).
func Write(w io.Writer, store *corpus.Store) error {
	var payload bytes.Buffer
	enc := gob.NewEncoder(&payload)
	for _, sym := range store.Iterate() {
		if err := enc.Encode(record{Sym: sym}); err != nil {
			return merrors.Wrap(merrors.SerializationError, "encoding symbol "+sym.ID.String(), err)
		}
	}

	zw, err := zstd.NewWriter(nil)
	if err != nil {
		return merrors.Wrap(merrors.SerializationError, "creating zstd writer", err)
	}
	defer zw.Close()
	compressed := zw.EncodeAll(payload.Bytes(), nil)

	digest := blake2b.Sum256(compressed)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return merrors.Wrap(merrors.SerializationError, "writing magic", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, FormatVersion); err != nil {
		return merrors.Wrap(merrors.SerializationError, "writing version", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(compressed))); err != nil {
		return merrors.Wrap(merrors.SerializationError, "writing length", err)
	}
	if _, err := bw.Write(compressed); err != nil {
		return merrors.Wrap(merrors.SerializationError, "writing payload", err)
	}
	if _, err := bw.Write(digest[:]); err != nil {
		return merrors.Wrap(merrors.SerializationError, "writing digest", err)
	}
	return bw.Flush()
}

// Read deserializes a store previously written by Write, verifying the
// magic, format version, and integrity digest before decoding any
// records (spec §6, "bad magic / unknown block ID / truncated record"
// are all SerializationError, not a partial read).
func Read(r io.Reader) (*corpus.Store, error) {
	br := bufio.NewReader(r)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "reading magic", err)
	}
	if gotMagic != magic {
		return nil, merrors.New(merrors.SerializationError, fmt.Sprintf("bad magic %q", gotMagic))
	}

	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "reading version", err)
	}
	if version != FormatVersion {
		return nil, merrors.New(merrors.SerializationError, fmt.Sprintf("unsupported format version %d", version))
	}

	var length uint64
	if err := binary.Read(br, binary.LittleEndian, &length); err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "reading length", err)
	}

	compressed := make([]byte, length)
	if _, err := io.ReadFull(br, compressed); err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "reading payload (truncated record)", err)
	}

	var wantDigest [32]byte
	if _, err := io.ReadFull(br, wantDigest[:]); err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "reading digest", err)
	}
	gotDigest := blake2b.Sum256(compressed)
	if gotDigest != wantDigest {
		return nil, merrors.New(merrors.SerializationError, "integrity digest mismatch")
	}

	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "creating zstd reader", err)
	}
	defer zr.Close()
	payload, err := zr.DecodeAll(compressed, nil)
	if err != nil {
		return nil, merrors.Wrap(merrors.SerializationError, "decompressing payload", err)
	}

	store := corpus.NewStore()
	dec := gob.NewDecoder(bytes.NewReader(payload))
	for {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, merrors.Wrap(merrors.SerializationError, "decoding symbol record", err)
		}
		store.Ingest(rec.Sym)
	}
	return store, nil
}
