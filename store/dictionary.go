package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/janus-sparql/term"
)

const (
	dictStrPrefix = 's' // string -> id
	dictIDPrefix  = 'i' // id -> string
)

// wellKnown reserves low dictionary ids for the xsd/rdf datatype IRIs the
// evaluator refers to by constant (see term.IDXSD*), so casts and
// Datatype() never have to round-trip through the store to find them.
var wellKnown = map[uint64]string{
	term.IDXSDString:     "http://www.w3.org/2001/XMLSchema#string",
	term.IDXSDBoolean:    "http://www.w3.org/2001/XMLSchema#boolean",
	term.IDXSDFloat:      "http://www.w3.org/2001/XMLSchema#float",
	term.IDXSDDouble:     "http://www.w3.org/2001/XMLSchema#double",
	term.IDXSDInteger:    "http://www.w3.org/2001/XMLSchema#integer",
	term.IDXSDDecimal:    "http://www.w3.org/2001/XMLSchema#decimal",
	term.IDXSDDateTime:   "http://www.w3.org/2001/XMLSchema#dateTime",
	term.IDRDFLangString: "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString",
}

// Dictionary is a persistent, string-interning bidirectional mapping
// between text and 64-bit ids, backed by badger and cached in-memory via
// sync.Map, following the teacher's KeywordIntern/IdentityIntern pattern
// in datalog/intern.go (generalized from a process-global cache to one
// scoped per store, and backed by durable storage rather than memory
// only).
type Dictionary struct {
	db      *badger.DB
	strToID sync.Map // string -> uint64
	idToStr sync.Map // uint64 -> string
	nextID  atomic.Uint64
	// mu serializes new-string insertion, matching §5's requirement that
	// the store "must serialize dictionary insertions"; reads proceed
	// lock-free through the sync.Map fast path.
	mu sync.Mutex
}

func newDictionary(db *badger.DB) (*Dictionary, error) {
	d := &Dictionary{db: db}
	d.nextID.Store(uint64(len(wellKnown)) + 1)
	for id, s := range wellKnown {
		d.idToStr.Store(id, s)
		d.strToID.Store(s, id)
	}
	return d, nil
}

// InsertStr implements insert_str: idempotent, monotonic.
func (d *Dictionary) InsertStr(s string) (uint64, error) {
	if v, ok := d.strToID.Load(s); ok {
		return v.(uint64), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if v, ok := d.strToID.Load(s); ok {
		return v.(uint64), nil
	}

	id := d.nextID.Add(1)
	err := d.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(dictKey(dictStrPrefix, s), encodeID(id)); err != nil {
			return err
		}
		return txn.Set(dictIDKey(id), []byte(s))
	})
	if err != nil {
		return 0, fmt.Errorf("insert dictionary string: %w", err)
	}
	d.strToID.Store(s, id)
	d.idToStr.Store(id, s)
	return id, nil
}

// GetString implements get_str.
func (d *Dictionary) GetString(id uint64) (string, error) {
	if v, ok := d.idToStr.Load(id); ok {
		return v.(string), nil
	}

	var s string
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dictIDKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			s = string(val)
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("get dictionary string %d: %w", id, err)
	}
	d.idToStr.Store(id, s)
	d.strToID.Store(s, id)
	return s, nil
}

func dictKey(prefix byte, s string) []byte {
	key := make([]byte, 0, 1+len(s))
	key = append(key, prefix)
	return append(key, s...)
}

func dictIDKey(id uint64) []byte {
	key := make([]byte, 9)
	key[0] = dictIDPrefix
	encodeIDInto(key[1:], id)
	return key
}

func encodeID(id uint64) []byte {
	buf := make([]byte, 8)
	encodeIDInto(buf, id)
	return buf
}

func encodeIDInto(buf []byte, id uint64) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(id)
		id >>= 8
	}
}
