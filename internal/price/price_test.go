package price

import (
	"encoding/json"
	"testing"
)

func TestFromFloat64RoundTrip(t *testing.T) {
	p := FromFloat64(123.45, 4)
	if p.Mantissa != 1234500 {
		t.Fatalf("expected mantissa 1234500, got %d", p.Mantissa)
	}
	if got := p.Float64(); got != 123.45 {
		t.Errorf("expected 123.45, got %v", got)
	}
}

func TestRebaseUpAndDown(t *testing.T) {
	p := P{Mantissa: 12345, Basis: 2}
	up := p.Rebase(4)
	if up.Mantissa != 1234500 || up.Basis != 4 {
		t.Errorf("unexpected rebase up: %+v", up)
	}
	down := up.Rebase(2)
	if down.Mantissa != 12345 || down.Basis != 2 {
		t.Errorf("unexpected rebase down: %+v", down)
	}
}

func TestCmpAcrossBases(t *testing.T) {
	a := P{Mantissa: 100, Basis: 2}  // 1.00
	b := P{Mantissa: 10001, Basis: 4} // 1.0001
	if Cmp(a, b) >= 0 {
		t.Errorf("expected a < b")
	}
	if Cmp(b, a) <= 0 {
		t.Errorf("expected b > a")
	}
	if Cmp(a, a) != 0 {
		t.Errorf("expected equal prices to compare 0")
	}
}

func TestAddDifferentBases(t *testing.T) {
	a := P{Mantissa: 100, Basis: 2}  // 1.00
	b := P{Mantissa: 5000, Basis: 4} // 0.5
	sum := Add(a, b)
	if sum.Basis != 4 {
		t.Fatalf("expected result basis 4, got %d", sum.Basis)
	}
	if sum.Mantissa != 15000 {
		t.Errorf("expected mantissa 15000 (1.50), got %d", sum.Mantissa)
	}
}

func TestMarshalTextRoundTrip(t *testing.T) {
	p := P{Mantissa: 1234500, Basis: 4}
	text, err := p.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got P
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}
}

func TestMarshalTextAsJSONMapKey(t *testing.T) {
	m := map[P]uint64{
		{Mantissa: 1000, Basis: 4}: 10,
		{Mantissa: 1005, Basis: 4}: 20,
	}
	buf, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal map: %v", err)
	}
	var back map[P]uint64
	if err := json.Unmarshal(buf, &back); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(back))
	}
	if back[P{Mantissa: 1000, Basis: 4}] != 10 {
		t.Errorf("expected 10, got %d", back[P{Mantissa: 1000, Basis: 4}])
	}
}
