package types

import (
	"math"
	"testing"
)

func TestScalarEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null null", NullValue{}, NullValue{}, true},
		{"null int", NullValue{}, IntValue{Val: 0}, false},
		{"bool same", BoolValue{Val: true}, BoolValue{Val: true}, true},
		{"bool differ", BoolValue{Val: true}, BoolValue{Val: false}, false},
		{"int same", IntValue{Val: 42}, IntValue{Val: 42}, true},
		{"int differ", IntValue{Val: 42}, IntValue{Val: 43}, false},
		{"int not float", IntValue{Val: 1}, FloatValue{Val: 1}, false},
		{"float same", FloatValue{Val: 2.5}, FloatValue{Val: 2.5}, true},
		{"float zero signs", FloatValue{Val: 0.0}, FloatValue{Val: math.Copysign(0, -1)}, false},
		{"float nan same bits", FloatValue{Val: math.NaN()}, FloatValue{Val: math.NaN()}, true},
		{"str same", NewStr("abc"), NewStr("abc"), true},
		{"str differ", NewStr("abc"), NewStr("abd"), false},
		{"str not int", NewStr("1"), IntValue{Val: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestListEqual(t *testing.T) {
	a := NewList(IntValue{Val: 1}, NewStr("x"), NewList(BoolValue{Val: true}))
	b := NewList(IntValue{Val: 1}, NewStr("x"), NewList(BoolValue{Val: true}))
	if !a.Equal(b) {
		t.Error("deep-equal lists compare unequal")
	}

	reordered := NewList(NewStr("x"), IntValue{Val: 1}, NewList(BoolValue{Val: true}))
	if a.Equal(reordered) {
		t.Error("element order must be significant")
	}

	shorter := NewList(IntValue{Val: 1}, NewStr("x"))
	if a.Equal(shorter) || shorter.Equal(a) {
		t.Error("lists of different length compare equal")
	}

	if NewList().Equal(NewMap()) {
		t.Error("empty list equals empty map")
	}
}

func TestMapEqual(t *testing.T) {
	a := NewMap(
		MapEntry{Key: NewStr("k"), Value: IntValue{Val: 1}},
		MapEntry{Key: IntValue{Val: 7}, Value: NewStr("v")},
	)
	b := NewMap(
		MapEntry{Key: NewStr("k"), Value: IntValue{Val: 1}},
		MapEntry{Key: IntValue{Val: 7}, Value: NewStr("v")},
	)
	if !a.Equal(b) {
		t.Error("deep-equal maps compare unequal")
	}

	swapped := NewMap(
		MapEntry{Key: IntValue{Val: 7}, Value: NewStr("v")},
		MapEntry{Key: NewStr("k"), Value: IntValue{Val: 1}},
	)
	if a.Equal(swapped) {
		t.Error("entry order must be significant")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NullValue{}, "null"},
		{BoolValue{Val: false}, "false"},
		{IntValue{Val: -3}, "-3"},
		{FloatValue{Val: 2}, "2.0"},
		{FloatValue{Val: 1.5e10}, "1.5e+10"},
		{NewStr(`say "hi"`), `"say \"hi\""`},
		{NewList(IntValue{Val: 1}, IntValue{Val: 2}), "[1, 2]"},
		{NewMap(MapEntry{Key: NewStr("a"), Value: NullValue{}}), `{"a": null}`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
