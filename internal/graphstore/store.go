// Package graphstore persists extracted graphs, one named graph per source
// document, on top of the key-value storage layer.
package graphstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/aleksaelezovic/microdata/internal/storage"
	"github.com/aleksaelezovic/microdata/pkg/rdf"
)

// ErrGraphNotFound is returned when a graph has never been stored.
var ErrGraphNotFound = errors.New("graph not found")

const graphKeySize = 16

// Store keeps the triples of each graph in emission order. Duplicate
// triples are kept.
type Store struct {
	storage storage.Storage
}

// New wraps an open storage.
func New(s storage.Storage) *Store {
	return &Store{storage: s}
}

// Open opens a badger-backed store at path. An empty path keeps the store
// in memory.
func Open(path string) (*Store, error) {
	s, err := storage.NewBadgerStorage(path)
	if err != nil {
		return nil, err
	}
	return New(s), nil
}

// Close closes the underlying storage
func (s *Store) Close() error {
	return s.storage.Close()
}

// graphKey computes the 128-bit xxhash3 key of a graph name
func graphKey(graph string) []byte {
	hash := xxh3.HashString128(graph)
	key := make([]byte, graphKeySize)
	binary.BigEndian.PutUint64(key[0:8], hash.Hi)
	binary.BigEndian.PutUint64(key[8:16], hash.Lo)
	return key
}

func tripleKey(graph []byte, seq uint64) []byte {
	key := make([]byte, graphKeySize+8)
	copy(key, graph)
	binary.BigEndian.PutUint64(key[graphKeySize:], seq)
	return key
}

// Replace stores triples as the full content of graph, discarding whatever
// the graph held before.
func (s *Store) Replace(graph string, triples []*rdf.Triple) error {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // nolint:errcheck

	key := graphKey(graph)
	if err := clearGraph(txn, key); err != nil {
		return err
	}

	if err := txn.Set(storage.TableGraphs, key, []byte(graph)); err != nil {
		return fmt.Errorf("failed to store graph name: %w", err)
	}
	for i, triple := range triples {
		line := rdf.FormatTriple(triple)
		if err := txn.Set(storage.TableTriples, tripleKey(key, uint64(i)), []byte(line)); err != nil {
			return fmt.Errorf("failed to store triple: %w", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit graph %s: %w", graph, err)
	}
	return nil
}

func clearGraph(txn storage.Transaction, key []byte) error {
	it, err := txn.Scan(storage.TableTriples, key)
	if err != nil {
		return fmt.Errorf("failed to scan graph: %w", err)
	}
	var stale [][]byte
	for it.Next() {
		stale = append(stale, it.Key())
	}
	_ = it.Close()

	for _, k := range stale {
		if err := txn.Delete(storage.TableTriples, k); err != nil {
			return fmt.Errorf("failed to delete triple: %w", err)
		}
	}
	return nil
}

// Delete removes a graph and its triples.
func (s *Store) Delete(graph string) error {
	txn, err := s.storage.Begin(true)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // nolint:errcheck

	key := graphKey(graph)
	if _, err := txn.Get(storage.TableGraphs, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrGraphNotFound, graph)
		}
		return err
	}
	if err := clearGraph(txn, key); err != nil {
		return err
	}
	if err := txn.Delete(storage.TableGraphs, key); err != nil {
		return fmt.Errorf("failed to delete graph name: %w", err)
	}
	return txn.Commit()
}

// Triples returns the triples of graph in the order they were stored.
func (s *Store) Triples(graph string) ([]*rdf.Triple, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // nolint:errcheck

	key := graphKey(graph)
	if _, err := txn.Get(storage.TableGraphs, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGraphNotFound, graph)
		}
		return nil, err
	}

	it, err := txn.Scan(storage.TableTriples, key)
	if err != nil {
		return nil, fmt.Errorf("failed to scan graph: %w", err)
	}
	defer it.Close() // nolint:errcheck

	var doc strings.Builder
	for it.Next() {
		line, err := it.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read triple: %w", err)
		}
		doc.Write(line)
		doc.WriteByte('\n')
	}

	triples, err := rdf.ParseNTriples(doc.String())
	if err != nil {
		return nil, fmt.Errorf("corrupt graph %s: %w", graph, err)
	}
	return triples, nil
}

// Graphs lists the stored graph names in lexical order.
func (s *Store) Graphs() ([]string, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // nolint:errcheck

	it, err := txn.Scan(storage.TableGraphs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to scan graphs: %w", err)
	}
	defer it.Close() // nolint:errcheck

	var graphs []string
	for it.Next() {
		name, err := it.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read graph name: %w", err)
		}
		graphs = append(graphs, string(name))
	}
	sort.Strings(graphs)
	return graphs, nil
}

// Count returns the number of triples stored for graph.
func (s *Store) Count(graph string) (int, error) {
	txn, err := s.storage.Begin(false)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback() // nolint:errcheck

	it, err := txn.Scan(storage.TableTriples, graphKey(graph))
	if err != nil {
		return 0, fmt.Errorf("failed to scan graph: %w", err)
	}
	defer it.Close() // nolint:errcheck

	count := 0
	for it.Next() {
		count++
	}
	return count, nil
}
