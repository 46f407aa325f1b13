// Package store implements the Dataset View contract (§4.1) against a
// persistent badger-backed quad store, following the teacher's
// datalog/storage/badger_store.go: tuned badger.Options for a
// read-heavy workload, one index per useful leading-bound-position
// combination, quads serialized as the value under every index entry.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/wbrown/janus-sparql/term"
)

// field names a quad position, used to describe an index's key order.
type field int

const (
	fieldS field = iota
	fieldP
	fieldO
	fieldG
)

// indexKind identifies one of the store's covering indices by the order
// in which it lays out the four quad positions in its keys.
type indexKind byte

const (
	indexSPOG indexKind = 's'
	indexPOSG indexKind = 'p'
	indexOSPG indexKind = 'o'
	indexGSPO indexKind = 'g'
)

var indexOrder = map[indexKind][4]field{
	indexSPOG: {fieldS, fieldP, fieldO, fieldG},
	indexPOSG: {fieldP, fieldO, fieldS, fieldG},
	indexOSPG: {fieldO, fieldS, fieldP, fieldG},
	indexGSPO: {fieldG, fieldS, fieldP, fieldO},
}

var allIndices = []indexKind{indexSPOG, indexPOSG, indexOSPG, indexGSPO}

// QuadStore is a persistent, badger-backed implementation of the Dataset
// View's store collaborator: it owns the term dictionary and a
// multi-index quad table.
type QuadStore struct {
	db   *badger.DB
	Dict *Dictionary
}

// Open opens (creating if absent) a badger-backed quad store at path.
func Open(path string) (*QuadStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	// Performance tuning for a read-heavy query workload, matching the
	// teacher's NewBadgerStore.
	opts.MemTableSize = 128 << 20
	opts.BlockCacheSize = 256 << 20
	opts.IndexCacheSize = 100 << 20
	opts.DetectConflicts = false
	opts.NumCompactors = 4
	opts.ValueThreshold = 1 << 10

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger quad store: %w", err)
	}
	dict, err := newDictionary(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	return &QuadStore{db: db, Dict: dict}, nil
}

// OpenInMemory opens an ephemeral, non-persistent store. Used by tests
// and by short-lived evaluations that do not need durability.
func OpenInMemory() (*QuadStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory quad store: %w", err)
	}
	dict, err := newDictionary(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	return &QuadStore{db: db, Dict: dict}, nil
}

// Close releases the underlying badger database.
func (s *QuadStore) Close() error {
	return s.db.Close()
}

// Insert adds quads to every covering index.
func (s *QuadStore) Insert(quads []term.Quad) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, q := range quads {
			if err := s.insertQuad(txn, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *QuadStore) insertQuad(txn *badger.Txn, q term.Quad) error {
	value, err := encodeQuad(q)
	if err != nil {
		return fmt.Errorf("encode quad: %w", err)
	}
	for _, kind := range allIndices {
		key, err := indexKey(kind, q)
		if err != nil {
			return fmt.Errorf("build %c index key: %w", kind, err)
		}
		if err := txn.Set(key, value); err != nil {
			return fmt.Errorf("write %c index: %w", kind, err)
		}
	}
	return nil
}

// Remove deletes quads from every covering index.
func (s *QuadStore) Remove(quads []term.Quad) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, q := range quads {
			for _, kind := range allIndices {
				key, err := indexKey(kind, q)
				if err != nil {
					return fmt.Errorf("build %c index key: %w", kind, err)
				}
				if err := txn.Delete(key); err != nil && err != badger.ErrKeyNotFound {
					return fmt.Errorf("delete from %c index: %w", kind, err)
				}
			}
		}
		return nil
	})
}

// positionValue extracts the requested field from a quad.
func positionValue(q term.Quad, f field) term.Encoded {
	switch f {
	case fieldS:
		return q.Subject
	case fieldP:
		return q.Predicate
	case fieldO:
		return q.Object
	default:
		return q.GraphName
	}
}

func indexKey(kind indexKind, q term.Quad) ([]byte, error) {
	order := indexOrder[kind]
	buf := []byte{byte(kind)}
	for _, f := range order {
		v := positionValue(q, f)
		b := v.AppendHashBytes(nil)
		var lenPrefix [2]byte
		lenPrefix[0] = byte(len(b) >> 8)
		lenPrefix[1] = byte(len(b))
		buf = append(buf, lenPrefix[0], lenPrefix[1])
		buf = append(buf, b...)
	}
	return buf, nil
}

// chooseIndex picks the covering index to scan from the first bound
// position in s, p, o, g order; the chosen index does not always put
// every bound position in its leading run (e.g. s and o bound without
// p scans SPOG on s alone). This is a fixed
// heuristic, not a cost-based choice (query optimization is a
// non-goal): s-bound prefers SPOG, else p-bound prefers POSG, else
// o-bound prefers OSPG, else g-bound prefers GSPO, else SPOG full scan.
func chooseIndex(bound [4]bool) indexKind {
	switch {
	case bound[fieldS]:
		return indexSPOG
	case bound[fieldP]:
		return indexPOSG
	case bound[fieldO]:
		return indexOSPG
	case bound[fieldG]:
		return indexGSPO
	default:
		return indexSPOG
	}
}

// scanPrefix builds the byte prefix covering the leading run of bound
// positions (in the chosen index's order) of a pattern, and reports how
// many of the 4 positions that prefix actually constrains.
func scanPrefix(kind indexKind, pattern [4]*term.Encoded) (prefix []byte, matched int) {
	order := indexOrder[kind]
	prefix = []byte{byte(kind)}
	for _, f := range order {
		v := pattern[f]
		if v == nil {
			break
		}
		b := v.AppendHashBytes(nil)
		var lenPrefix [2]byte
		lenPrefix[0] = byte(len(b) >> 8)
		lenPrefix[1] = byte(len(b))
		prefix = append(prefix, lenPrefix[0], lenPrefix[1])
		prefix = append(prefix, b...)
		matched++
	}
	return prefix, matched
}

// QuadsForPattern implements quads_for_pattern (§4.1). Any of s,p,o,g may
// be nil to wildcard that position. g == nil means "any graph including
// default"; to select only the default graph, pass &term.DefaultGraph.
func (s *QuadStore) QuadsForPattern(subj, pred, obj, graph *term.Encoded) ([]term.Quad, error) {
	pattern := [4]*term.Encoded{subj, pred, obj, graph}
	var bound [4]bool
	for i, v := range pattern {
		bound[i] = v != nil
	}
	kind := chooseIndex(bound)
	prefix, _ := scanPrefix(kind, pattern)

	var results []term.Quad
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				q, err := decodeQuad(val)
				if err != nil {
					return err
				}
				if matchesPattern(q, subj, pred, obj, graph) {
					results = append(results, q)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan quads for pattern: %w", err)
	}
	return results, nil
}

func matchesPattern(q term.Quad, subj, pred, obj, graph *term.Encoded) bool {
	if subj != nil && !q.Subject.Equal(*subj) {
		return false
	}
	if pred != nil && !q.Predicate.Equal(*pred) {
		return false
	}
	if obj != nil && !q.Object.Equal(*obj) {
		return false
	}
	if graph != nil && !q.GraphName.Equal(*graph) {
		return false
	}
	return true
}
