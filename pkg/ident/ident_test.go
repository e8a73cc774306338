package ident

import "testing"

func TestIDString(t *testing.T) {
	id := Numeric(1, 100)
	if got, want := id.String(), "ns=1;i=100"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ID
		wantErr bool
	}{
		{"valid", "ns=1;i=100", ID{Namespace: 1, Numeric: 100}, false},
		{"zero namespace", "ns=0;i=7", ID{Namespace: 0, Numeric: 7}, false},
		{"max numeric", "ns=1;i=4294967295", ID{Namespace: 1, Numeric: 4294967295}, false},
		{"missing separator", "ns=1i=100", ID{}, true},
		{"missing ns prefix", "1;i=100", ID{}, true},
		{"missing i prefix", "ns=1;100", ID{}, true},
		{"numeric overflow", "ns=1;i=4294967296", ID{}, true},
		{"namespace overflow", "ns=65536;i=1", ID{}, true},
		{"garbage", "hello", ID{}, true},
		{"empty", "", ID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	id := Numeric(3, 42)
	parsed, err := Parse(id.String())
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", id.String(), err)
	}
	if parsed != id {
		t.Errorf("round trip = %v, want %v", parsed, id)
	}
}

func TestIsZero(t *testing.T) {
	if !(ID{}).IsZero() {
		t.Error("zero ID should report IsZero")
	}
	if Numeric(1, 0).IsZero() {
		t.Error("ns=1;i=0 is a real identity, not zero")
	}
	if Numeric(0, 1).IsZero() {
		t.Error("ns=0;i=1 is a real identity, not zero")
	}
}

func TestEquality(t *testing.T) {
	// Exact structural equality: same numeric value in different
	// namespaces must not compare equal.
	if Numeric(1, 100) == Numeric(2, 100) {
		t.Error("IDs in different namespaces compared equal")
	}
	if Numeric(1, 100) != Numeric(1, 100) {
		t.Error("identical IDs compared unequal")
	}
}
