package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/achilleasa/prism/types"
)

func decodeJSON(t *testing.T, doc string) Props {
	var p Props
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPropAccessors(t *testing.T) {
	p := decodeJSON(t, `{"name": "floor", "ke": [1, 2, 3], "gray": 0.5, "n": 4, "flag": true, "sub": {"x": 1}}`)

	if s, err := p.String("name"); err != nil || s != "floor" {
		t.Fatalf("expected name to be 'floor'; got %q, %v", s, err)
	}
	if v, err := p.Vec3("ke"); err != nil || v != types.XYZ(1, 2, 3) {
		t.Fatalf("expected ke {1, 2, 3}; got %v, %v", v, err)
	}
	if v, err := p.Vec3("gray"); err != nil || v != types.Splat3(0.5) {
		t.Fatalf("expected scalar to be splatted; got %v, %v", v, err)
	}
	if n, err := p.Int("n"); err != nil || n != 4 {
		t.Fatalf("expected n = 4; got %d, %v", n, err)
	}
	if _, err := p.Int("gray"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected fractional int to be rejected; got %v", err)
	}
	if b, err := p.Bool("flag"); err != nil || !b {
		t.Fatalf("expected flag to be true; got %t, %v", b, err)
	}
	if sub, err := p.Sub("sub"); err != nil || !sub.Has("x") {
		t.Fatalf("expected nested record; got %v, %v", sub, err)
	}
	if _, err := p.String("missing"); !errors.Is(err, ErrMissingProp) {
		t.Fatalf("expected ErrMissingProp; got %v", err)
	}
	if _, err := p.Bool("name"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch; got %v", err)
	}
	if s, err := p.StringOr("missing", "def"); err != nil || s != "def" {
		t.Fatalf("expected default value; got %q, %v", s, err)
	}
}

func TestDecode(t *testing.T) {
	type params struct {
		Bins     int        `mapstructure:"bins"`
		Cost     float32    `mapstructure:"traversal_cost"`
		Albedo   types.Vec3 `mapstructure:"albedo"`
		Emissive types.Vec3 `mapstructure:"ke"`
	}

	out := params{Bins: 32, Cost: 1}
	if err := Decode(decodeJSON(t, `{"bins": 8, "albedo": [0.1, 0.2, 0.3], "ke": 2}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Bins != 8 || out.Cost != 1 {
		t.Fatalf("expected bins=8 and default cost=1; got %+v", out)
	}
	if out.Albedo != types.XYZ(0.1, 0.2, 0.3) || out.Emissive != types.Splat3(2) {
		t.Fatalf("unexpected vector values %+v", out)
	}

	if err := Decode(Props{"unknown": 1}, &out); err == nil {
		t.Fatal("expected unknown keys to be rejected")
	}
}

func TestTransform(t *testing.T) {
	m, err := Transform(nil)
	if err != nil || m != types.Ident4() {
		t.Fatalf("expected identity for nil props; got %v, %v", m, err)
	}

	m, err = Transform(decodeJSON(t, `{"translate": [1, 0, 0], "rotate": {"axis": [0, 0, 1], "angle": 90}, "scale": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	p := m.MulPoint(types.XYZ(1, 0, 0))
	exp := types.XYZ(1, 2, 0)
	if p.Distance(exp) > 1e-5 {
		t.Fatalf("expected %v; got %v", exp, p)
	}

	m, err = Transform(decodeJSON(t, `{"matrix": [1,0,0,0, 0,1,0,0, 0,0,1,0, 5,6,7,1]}`))
	if err != nil {
		t.Fatal(err)
	}
	if p = m.MulPoint(types.Vec3{}); p != types.XYZ(5, 6, 7) {
		t.Fatalf("expected column-major translation {5, 6, 7}; got %v", p)
	}

	if _, err = Transform(Props{"matrix": []interface{}{1.0, 2.0}}); !errors.Is(err, ErrInvalidMatrix) {
		t.Fatalf("expected ErrInvalidMatrix; got %v", err)
	}
}
