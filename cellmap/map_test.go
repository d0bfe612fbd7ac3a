package cellmap_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hexfrost/frozenkit/cellkey"
	. "github.com/hexfrost/frozenkit/cellmap"
	"github.com/hexfrost/frozenkit/internal/testx"
	"github.com/uber/h3-go/v4"
	"pgregory.net/rapid"
)

// entriesOf pairs each cell with a value derived from its position, in
// hierarchical order.
func entriesOf(cells []h3.Cell) []Entry {
	entries := make([]Entry, len(cells))
	for i, c := range cells {
		entries[i] = Entry{Cell: c, Value: uint64(i) * 100}
	}
	return entries
}

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("it returns the value associated with a cell", func(t *testing.T) {
		t.Parallel()

		m, err := FromEntries(
			Entry{Cell: testx.Res10Cell, Value: 42},
			Entry{Cell: testx.Res5Cell, Value: 0},
		)
		if err != nil {
			t.Fatal(err)
		}

		value, ok, err := m.Get(testx.Res10Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected the cell to be present")
		}
		if value != 42 {
			t.Fatalf("unexpected value: got %d, want 42", value)
		}

		// A zero value is distinguishable from absence.
		value, ok, err = m.Get(testx.Res5Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected the cell to be present")
		}
		if value != 0 {
			t.Fatalf("unexpected value: got %d, want 0", value)
		}

		_, ok, err = m.Get(testx.Res5Cell2)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("did not expect the cell to be present")
		}
	})

	t.Run("it returns the covering ancestor and its value", func(t *testing.T) {
		t.Parallel()

		parent := testx.Descend(t, testx.Res5Cell, 0, 0, 0, 0)

		m, err := FromEntries(Entry{Cell: parent, Value: 7})
		if err != nil {
			t.Fatal(err)
		}

		for _, child := range testx.Children(t, parent) {
			covering, value, ok, err := m.Covering(child)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("expected %s to be covered", child)
			}
			if covering != parent || value != 7 {
				t.Fatalf(
					"unexpected covering entry: got %s=%d, want %s=7",
					covering, value, parent,
				)
			}

			_, ok, err = m.Get(child)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatalf("did not expect %s to be an exact entry", child)
			}
		}
	})

	t.Run("it prefers the coarsest covering entry", func(t *testing.T) {
		t.Parallel()

		coarse := testx.ChildAt(t, testx.Res5Cell, 1)
		fine := testx.Descend(t, coarse, 2, 3)

		m, err := FromEntries(
			Entry{Cell: coarse, Value: 1},
			Entry{Cell: fine, Value: 2},
		)
		if err != nil {
			t.Fatal(err)
		}

		covering, value, ok, err := m.Covering(testx.ChildAt(t, fine, 4))
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected the cell to be covered")
		}
		if covering != coarse || value != 1 {
			t.Fatalf(
				"unexpected covering entry: got %s=%d, want %s=1",
				covering, value, coarse,
			)
		}
	})

	t.Run("it ranges over entries in hierarchical key order", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(
			testx.SortCells(
				append(
					testx.Children(t, testx.Res5Cell),
					testx.Res10Cell,
				),
			),
		)

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		var got []Entry
		if err := m.Range(func(cell h3.Cell, value uint64) (bool, error) {
			got = append(got, Entry{Cell: cell, Value: value})
			return true, nil
		}); err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(entries, got); diff != "" {
			t.Fatalf("unexpected entries (-want +got):\n%s", diff)
		}
	})

	t.Run("it can restart ranging at an arbitrary cell", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(testx.SortCells(testx.Children(t, testx.Res5Cell)))

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		var got []Entry
		if err := m.Between(
			entries[2].Cell,
			entries[5].Cell,
			func(cell h3.Cell, value uint64) (bool, error) {
				got = append(got, Entry{Cell: cell, Value: value})
				return true, nil
			},
		); err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(entries[2:5], got); diff != "" {
			t.Fatalf("unexpected entries (-want +got):\n%s", diff)
		}
	})

	t.Run("it ranges over the descendants of a cell", func(t *testing.T) {
		t.Parallel()

		parent := testx.ChildAt(t, testx.Res5Cell, 3)

		entries := entriesOf(
			testx.SortCells([]h3.Cell{
				parent,
				testx.ChildAt(t, parent, 0),
				testx.Descend(t, parent, 4, 4),
				testx.ChildAt(t, testx.Res5Cell, 4),
			}),
		)

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		var got []h3.Cell
		if err := m.Descendants(parent, func(cell h3.Cell, _ uint64) (bool, error) {
			got = append(got, cell)
			return true, nil
		}); err != nil {
			t.Fatal(err)
		}

		want := []h3.Cell{
			testx.ChildAt(t, parent, 0),
			testx.Descend(t, parent, 4, 4),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("unexpected cells (-want +got):\n%s", diff)
		}
	})

	t.Run("it ranges over keys and values independently", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(testx.SortCells(testx.Children(t, testx.Res10Cell)))

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		var cells []h3.Cell
		if err := m.Keys(func(cell h3.Cell) (bool, error) {
			cells = append(cells, cell)
			return true, nil
		}); err != nil {
			t.Fatal(err)
		}

		var values []uint64
		if err := m.Values(func(value uint64) (bool, error) {
			values = append(values, value)
			return true, nil
		}); err != nil {
			t.Fatal(err)
		}

		for i, e := range entries {
			if cells[i] != e.Cell {
				t.Fatalf("unexpected cell at %d: got %s, want %s", i, cells[i], e.Cell)
			}
			if values[i] != e.Value {
				t.Fatalf("unexpected value at %d: got %d, want %d", i, values[i], e.Value)
			}
		}
	})

	t.Run("it round-trips through its serialized form", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(testx.SortCells(testx.Children(t, testx.Res10Cell)))

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		loaded, err := New(m.Bytes())
		if err != nil {
			t.Fatal(err)
		}

		for _, e := range entries {
			value, ok, err := loaded.Get(e.Cell)
			if err != nil {
				t.Fatal(err)
			}
			if !ok || value != e.Value {
				t.Fatalf("unexpected entry for %s: got %d/%v, want %d", e.Cell, value, ok, e.Value)
			}
		}
	})

	t.Run("it rejects a corrupt buffer", func(t *testing.T) {
		t.Parallel()

		if _, err := New([]byte("<not a map>")); !IsCorruptBlob(err) {
			t.Fatalf("unexpected error: got %v, want a corrupt-blob error", err)
		}
	})

	t.Run("it can be opened as a memory-mapped file", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(testx.SortCells(testx.Children(t, testx.Res5Cell)))

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		path := filepath.Join(t.TempDir(), "cells.fst")
		if err := os.WriteFile(path, m.Bytes(), 0o600); err != nil {
			t.Fatal(err)
		}

		mapped, err := OpenFile(path)
		if err != nil {
			t.Fatal(err)
		}
		defer mapped.Close()

		for _, e := range entries {
			value, ok, err := mapped.Get(e.Cell)
			if err != nil {
				t.Fatal(err)
			}
			if !ok || value != e.Value {
				t.Fatalf("unexpected entry for %s: got %d/%v, want %d", e.Cell, value, ok, e.Value)
			}
		}
	})

	t.Run("it can be empty", func(t *testing.T) {
		t.Parallel()

		m, err := FromEntries()
		if err != nil {
			t.Fatal(err)
		}

		if !m.IsEmpty() {
			t.Fatal("expected the map to be empty")
		}

		_, ok, err := m.Get(testx.Res10Cell)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("did not expect any entry")
		}
	})
}

func TestMapBuilder(t *testing.T) {
	t.Parallel()

	t.Run("it rejects an out-of-order cell and reports its position", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder()
		if err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res5Cell, 1); err != nil {
			t.Fatal(err)
		}

		err = b.Insert(testx.Res10Cell, 2)

		var ooo cellkey.OutOfOrderKeyError
		if !errors.As(err, &ooo) {
			t.Fatalf("unexpected error: got %v, want an out-of-order-key error", err)
		}

		if ooo.Index != 1 {
			t.Fatalf("unexpected index in error: got %d, want 1", ooo.Index)
		}
	})

	t.Run("it rejects a duplicate cell even with a different value", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder()
		if err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res10Cell, 1); err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res10Cell, 2); !cellkey.IsOrderViolation(err) {
			t.Fatalf("unexpected error: got %v, want an order violation", err)
		}
	})

	t.Run("it streams to an external writer", func(t *testing.T) {
		t.Parallel()

		entries := entriesOf(testx.SortCells(testx.Children(t, testx.Res5Cell)))

		path := filepath.Join(t.TempDir(), "cells.fst")

		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}

		b, err := NewBuilder(f)
		if err != nil {
			t.Fatal(err)
		}

		for _, e := range entries {
			if err := b.Insert(e.Cell, e.Value); err != nil {
				t.Fatal(err)
			}
		}

		if err := b.Close(); err != nil {
			t.Fatal(err)
		}

		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		m, err := OpenFile(path)
		if err != nil {
			t.Fatal(err)
		}
		defer m.Close()

		if got, want := m.Len(), len(entries); got != want {
			t.Fatalf("unexpected length: got %d, want %d", got, want)
		}
	})
}

func TestMapRandomized(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		cells := testx.SortCells(
			rapid.SliceOfN(
				testx.CellGenerator(),
				1,
				50,
			).Draw(t, "cells"),
		)

		values := rapid.SliceOfN(
			rapid.Uint64(),
			len(cells),
			len(cells),
		).Draw(t, "values")

		entries := make([]Entry, len(cells))
		for i, c := range cells {
			entries[i] = Entry{Cell: c, Value: values[i]}
		}

		m, err := FromEntries(entries...)
		if err != nil {
			t.Fatal(err)
		}

		for _, e := range entries {
			value, ok, err := m.Get(e.Cell)
			if err != nil {
				t.Fatal(err)
			}
			if !ok || value != e.Value {
				t.Fatalf("unexpected entry for %s: got %d/%v, want %d", e.Cell, value, ok, e.Value)
			}
		}
	})
}
