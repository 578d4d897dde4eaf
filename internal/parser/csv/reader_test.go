package csv

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNewReader_HeaderNormalization(t *testing.T) {
	in := "\uFEFFStreet, Sale Date ,sq__ft,Š-col\nx,y,z,w\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	want := []string{"street", "sale_date", "sq__ft", "s_col"}
	got := r.Header()
	if len(got) != len(want) {
		t.Fatalf("header = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReader_RowsInOrder(t *testing.T) {
	in := "name,food\n Victor ,Chicken\nEsan,Rice\nPelumi,Beans\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	var names []string
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		names = append(names, row["name"])
	}

	want := []string{"Victor", "Esan", "Pelumi"}
	if len(names) != 3 {
		t.Fatalf("rows = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("row %d name = %q, want %q (values must be trimmed and ordered)", i, names[i], want[i])
		}
	}
}

func TestReader_WidthMismatchIsHardError(t *testing.T) {
	in := "a,b,c\n1,2,3\n1,2\n"
	r, err := NewReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("first row: %v", err)
	}
	if _, err := r.Next(); err == nil {
		t.Fatal("short row succeeded, want field-count error")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open("testdata/does-not-exist.csv")
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("err = %v, want *SourceError", err)
	}
	if srcErr.Path != "testdata/does-not-exist.csv" {
		t.Fatalf("SourceError.Path = %q", srcErr.Path)
	}
}

func TestOpen_Testdata(t *testing.T) {
	r, err := Open("testdata/properties.csv")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	rows := 0
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if row["street"] == "" {
			t.Fatalf("row %d has empty street: %v", rows, row)
		}
		rows++
	}
	if rows != 5 {
		t.Fatalf("rows = %d, want 5", rows)
	}
}
