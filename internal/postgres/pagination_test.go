package postgres

import (
	"errors"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), ID: "mid-7"}

	s, err := EncodeCursor(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeCursor(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out == nil || !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	if err != nil || c != nil {
		t.Fatalf("empty cursor: c=%v err=%v", c, err)
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for name, s := range map[string]string{
		"not base64": "!!!",
		"not json":   "bm90LWpzb24",
	} {
		if _, err := DecodeCursor(s); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("%s: expected ErrInvalidCursor, got %v", name, err)
		}
	}
}
