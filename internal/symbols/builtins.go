package symbols

import (
	"branec/internal/types"
)

// builtinDefs returns the engine-provided definitions seeded into every
// fresh table. They resolve without imports and never enter snapshots.
func builtinDefs() []Definition {
	return []Definition{
		{
			Name:      "print",
			Kind:      DefFunction,
			Flags:     DefFlagBuiltin,
			Signature: &types.Signature{Params: []*types.Type{types.AnyType}, Ret: types.VoidType},
		},
		{
			Name:      "println",
			Kind:      DefFunction,
			Flags:     DefFlagBuiltin,
			Signature: &types.Signature{Params: []*types.Type{types.AnyType}, Ret: types.VoidType},
		},
		{
			Name:      "len",
			Kind:      DefFunction,
			Flags:     DefFlagBuiltin,
			Signature: &types.Signature{Params: []*types.Type{types.ArrayOf(types.AnyType)}, Ret: types.IntType},
		},
		{
			Name:  "commit_result",
			Kind:  DefFunction,
			Flags: DefFlagBuiltin,
			Signature: &types.Signature{
				Params: []*types.Type{types.StringType, types.AnyType},
				Ret:    types.DataType,
			},
		},
	}
}
