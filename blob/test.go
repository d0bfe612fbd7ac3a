package blob

import (
	"bytes"
	"testing"

	"github.com/hexfrost/frozenkit/internal/testx"
)

// RunTests runs tests that confirm a [Store] implementation behaves
// correctly.
func RunTests(
	t *testing.T,
	store Store,
) {
	t.Run("Read", func(t *testing.T) {
		t.Parallel()

		t.Run("it returns a not-found error for an unknown name", func(t *testing.T) {
			t.Parallel()

			_, err := store.Read(t.Context(), testx.SequentialName("blob"))
			if !IsNotFound(err) {
				t.Fatalf("unexpected error: got %v, want a not-found error", err)
			}
		})

		t.Run("it returns the stored bytes exactly", func(t *testing.T) {
			t.Parallel()

			name := testx.SequentialName("blob")
			want := []byte("<blob-content>")

			if err := store.Write(t.Context(), name, want); err != nil {
				t.Fatal(err)
			}

			got, err := store.Read(t.Context(), name)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, want) {
				t.Fatalf("unexpected blob content: got %q, want %q", got, want)
			}
		})

		t.Run("it does not allow the caller to corrupt the stored blob", func(t *testing.T) {
			t.Parallel()

			name := testx.SequentialName("blob")

			if err := store.Write(t.Context(), name, []byte("<blob-content>")); err != nil {
				t.Fatal(err)
			}

			got, err := store.Read(t.Context(), name)
			if err != nil {
				t.Fatal(err)
			}

			for i := range got {
				got[i] = 'X'
			}

			got, err = store.Read(t.Context(), name)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, []byte("<blob-content>")) {
				t.Fatalf("unexpected blob content: got %q", got)
			}
		})
	})

	t.Run("Write", func(t *testing.T) {
		t.Parallel()

		t.Run("it returns a conflict error if the name is already in use", func(t *testing.T) {
			t.Parallel()

			name := testx.SequentialName("blob")

			if err := store.Write(t.Context(), name, []byte("<original>")); err != nil {
				t.Fatal(err)
			}

			err := store.Write(t.Context(), name, []byte("<replacement>"))
			if !IsConflict(err) {
				t.Fatalf("unexpected error: got %v, want a conflict error", err)
			}

			// The original blob must be untouched.
			got, err := store.Read(t.Context(), name)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, []byte("<original>")) {
				t.Fatalf("unexpected blob content: got %q", got)
			}
		})

		t.Run("it does not keep a reference to the data slice", func(t *testing.T) {
			t.Parallel()

			name := testx.SequentialName("blob")
			data := []byte("<blob-content>")

			if err := store.Write(t.Context(), name, data); err != nil {
				t.Fatal(err)
			}

			for i := range data {
				data[i] = 'X'
			}

			got, err := store.Read(t.Context(), name)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, []byte("<blob-content>")) {
				t.Fatalf("unexpected blob content: got %q", got)
			}
		})

		t.Run("it keeps blobs with different names separate", func(t *testing.T) {
			t.Parallel()

			n1 := testx.SequentialName("blob")
			n2 := testx.SequentialName("blob")

			if err := store.Write(t.Context(), n1, []byte("<one>")); err != nil {
				t.Fatal(err)
			}
			if err := store.Write(t.Context(), n2, []byte("<two>")); err != nil {
				t.Fatal(err)
			}

			got, err := store.Read(t.Context(), n1)
			if err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(got, []byte("<one>")) {
				t.Fatalf("unexpected blob content: got %q", got)
			}
		})
	})
}
