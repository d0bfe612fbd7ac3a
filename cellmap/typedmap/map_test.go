package typedmap_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hexfrost/frozenkit/cellkey"
	"github.com/hexfrost/frozenkit/cellmap"
	. "github.com/hexfrost/frozenkit/cellmap/typedmap"
	"github.com/hexfrost/frozenkit/internal/testx"
	"github.com/hexfrost/frozenkit/marshaler"
	"github.com/uber/h3-go/v4"
)

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("it round-trips typed values", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Time)
		if err != nil {
			t.Fatal(err)
		}

		cells := testx.SortCells(testx.Children(t, testx.Res5Cell))
		epoch := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

		for i, cell := range cells {
			if err := b.Insert(cell, epoch.Add(time.Duration(i)*time.Hour)); err != nil {
				t.Fatal(err)
			}
		}

		m, err := b.Map()
		if err != nil {
			t.Fatal(err)
		}

		if got, want := m.Len(), len(cells); got != want {
			t.Fatalf("unexpected length: got %d, want %d", got, want)
		}

		for i, cell := range cells {
			v, ok, err := m.Get(cell)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("expected %s to be present", cell)
			}
			if want := epoch.Add(time.Duration(i) * time.Hour); !v.Equal(want) {
				t.Fatalf("unexpected value for %s: got %s, want %s", cell, v, want)
			}
		}
	})

	t.Run("it returns the covering ancestor and its typed value", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Int64)
		if err != nil {
			t.Fatal(err)
		}

		parent := testx.Descend(t, testx.Res5Cell, 0, 0, 0, 0)

		if err := b.Insert(parent, -42); err != nil {
			t.Fatal(err)
		}

		m, err := b.Map()
		if err != nil {
			t.Fatal(err)
		}

		child := testx.ChildAt(t, parent, 5)

		covering, v, ok, err := m.Covering(child)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("expected %s to be covered", child)
		}
		if covering != parent || v != -42 {
			t.Fatalf("unexpected covering entry: got %s=%d, want %s=-42", covering, v, parent)
		}

		_, ok, err = m.Get(child)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatalf("did not expect %s to be an exact entry", child)
		}
	})

	t.Run("it ranges with typed values", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Bool)
		if err != nil {
			t.Fatal(err)
		}

		cells := testx.SortCells(testx.Children(t, testx.Res10Cell))

		for i, cell := range cells {
			if err := b.Insert(cell, i%2 == 0); err != nil {
				t.Fatal(err)
			}
		}

		m, err := b.Map()
		if err != nil {
			t.Fatal(err)
		}

		var i int
		if err := m.Range(func(cell h3.Cell, v bool) (bool, error) {
			if cell != cells[i] {
				t.Fatalf("unexpected cell at %d: got %s, want %s", i, cell, cells[i])
			}
			if v != (i%2 == 0) {
				t.Fatalf("unexpected value at %d: got %v", i, v)
			}
			i++
			return true, nil
		}); err != nil {
			t.Fatal(err)
		}

		if i != len(cells) {
			t.Fatalf("unexpected number of entries: got %d, want %d", i, len(cells))
		}
	})

	t.Run("it shares the untyped serialized form", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Uint64)
		if err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res10Cell, 99); err != nil {
			t.Fatal(err)
		}

		m, err := b.Map()
		if err != nil {
			t.Fatal(err)
		}

		// The typed layer is marshaling only; the bytes load as a plain
		// uint64 map.
		raw, err := cellmap.New(m.Bytes())
		if err != nil {
			t.Fatal(err)
		}

		value, ok, err := raw.Get(testx.Res10Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !ok || value != 99 {
			t.Fatalf("unexpected entry: got %d/%v, want 99", value, ok)
		}

		typed := New(raw, marshaler.Uint64)

		v, ok, err := typed.Get(testx.Res10Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !ok || v != 99 {
			t.Fatalf("unexpected entry: got %d/%v, want 99", v, ok)
		}
	})

	t.Run("it propagates marshaling failures from the builder", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Time)
		if err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res10Cell, time.Unix(-1, 0)); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it propagates unmarshaling failures from queries", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("<error>")

		poisoned := marshaler.New(
			func(v uint64) (uint64, error) { return v, nil },
			func(uint64) (uint64, error) { return 0, sentinel },
		)

		raw, err := cellmap.FromEntries(cellmap.Entry{Cell: testx.Res10Cell, Value: 1})
		if err != nil {
			t.Fatal(err)
		}

		m := New(raw, poisoned)

		if _, _, err := m.Get(testx.Res10Cell); !errors.Is(err, sentinel) {
			t.Fatalf("unexpected error: got %v, want %v", err, sentinel)
		}

		if err := m.Range(func(h3.Cell, uint64) (bool, error) {
			t.Fatal("did not expect the range function to be called")
			return false, nil
		}); !errors.Is(err, sentinel) {
			t.Fatalf("unexpected error: got %v, want %v", err, sentinel)
		}
	})

	t.Run("it rejects out-of-order insertion like the untyped builder", func(t *testing.T) {
		t.Parallel()

		b, err := NewMemoryBuilder(marshaler.Uint64)
		if err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res5Cell, 1); err != nil {
			t.Fatal(err)
		}

		if err := b.Insert(testx.Res10Cell, 2); !cellkey.IsOrderViolation(err) {
			t.Fatalf("unexpected error: got %v, want an order violation", err)
		}
	})
}
