package storage

import (
	"errors"
	"testing"
)

func newTestStorage(t *testing.T) *BadgerStorage {
	t.Helper()
	s, err := NewBadgerStorage("")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := newTestStorage(t)

	txn, err := s.Begin(true)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	if err := txn.Set(TableGraphs, []byte("k"), []byte("v")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	txn, _ = s.Begin(false)
	value, err := txn.Get(TableGraphs, []byte("k"))
	if err != nil || string(value) != "v" {
		t.Errorf("expected v, got %q (%v)", value, err)
	}
	if _, err := txn.Get(TableTriples, []byte("k")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound in other table, got %v", err)
	}
	_ = txn.Rollback()

	txn, _ = s.Begin(true)
	if err := txn.Delete(TableGraphs, []byte("k")); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	txn, _ = s.Begin(false)
	defer txn.Rollback()
	if _, err := txn.Get(TableGraphs, []byte("k")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReadOnlyTransaction(t *testing.T) {
	s := newTestStorage(t)

	txn, _ := s.Begin(false)
	defer txn.Rollback()

	if err := txn.Set(TableGraphs, []byte("k"), []byte("v")); !errors.Is(err, ErrTransactionRO) {
		t.Errorf("expected ErrTransactionRO on set, got %v", err)
	}
	if err := txn.Delete(TableGraphs, []byte("k")); !errors.Is(err, ErrTransactionRO) {
		t.Errorf("expected ErrTransactionRO on delete, got %v", err)
	}
}

func TestScanPrefix(t *testing.T) {
	s := newTestStorage(t)

	txn, _ := s.Begin(true)
	for _, key := range []string{"a/2", "a/1", "b/1", "a"} {
		if err := txn.Set(TableTriples, []byte(key), []byte("v"+key)); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}
	if err := txn.Set(TableGraphs, []byte("a/3"), []byte("other table")); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	scan := func(prefix []byte) []string {
		txn, _ := s.Begin(false)
		defer txn.Rollback()

		it, err := txn.Scan(TableTriples, prefix)
		if err != nil {
			t.Fatalf("failed to scan: %v", err)
		}
		defer it.Close()

		var keys []string
		for it.Next() {
			value, err := it.Value()
			if err != nil {
				t.Fatalf("failed to read value: %v", err)
			}
			if string(value) != "v"+string(it.Key()) {
				t.Errorf("value %q does not match key %q", value, it.Key())
			}
			keys = append(keys, string(it.Key()))
		}
		return keys
	}

	if got := scan([]byte("a/")); len(got) != 2 || got[0] != "a/1" || got[1] != "a/2" {
		t.Errorf("expected [a/1 a/2], got %v", got)
	}
	if got := scan(nil); len(got) != 4 {
		t.Errorf("expected 4 keys in full scan, got %v", got)
	}
}

func TestTableString(t *testing.T) {
	if TableGraphs.String() != "graphs" || TableTriples.String() != "triples" || TableCount.String() != "unknown" {
		t.Error("unexpected table names")
	}
}
