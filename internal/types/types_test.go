package types_test

import (
	"testing"

	"branec/internal/types"
)

func TestAssignableTo(t *testing.T) {
	tests := []struct {
		name   string
		from   *types.Type
		to     *types.Type
		want   bool
	}{
		{"int to int", types.IntType, types.IntType, true},
		{"int to real widens", types.IntType, types.RealType, true},
		{"real to int narrows", types.RealType, types.IntType, false},
		{"any absorbs", types.StringType, types.AnyType, true},
		{"any produces", types.AnyType, types.BoolType, true},
		{"array covariant elem", types.ArrayOf(types.IntType), types.ArrayOf(types.RealType), true},
		{"array mismatch", types.ArrayOf(types.StringType), types.ArrayOf(types.IntType), false},
		{"bool to string", types.BoolType, types.StringType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.AssignableTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	if got, ok := types.ByName("Int"); !ok || got != types.IntType {
		t.Error("ByName(Int) failed")
	}
	if _, ok := types.ByName("Frobnicate"); ok {
		t.Error("unknown type name accepted")
	}
}

func TestString(t *testing.T) {
	arr := types.ArrayOf(types.ArrayOf(types.IntType))
	if got := arr.String(); got != "[[Int]]" {
		t.Errorf("String = %q", got)
	}
	sig := &types.Signature{Params: []*types.Type{types.IntType, types.StringType}, Ret: types.BoolType}
	if got := sig.String(); got != "func(Int, String) -> Bool" {
		t.Errorf("signature = %q", got)
	}
}
