package runtime

import "hash/fnv"

type ValueType string

const (
	NIL_VALUE      = "NIL"
	BOOLEAN_VALUE  = "BOOLEAN"
	INTEGER_VALUE  = "INTEGER"
	FLOAT_VALUE    = "FLOAT"
	STRING_VALUE   = "STRING"
	ARRAY_VALUE    = "ARRAY"
	INSTANCE_VALUE = "INSTANCE"
	ROUTINE_VALUE  = "ROUTINE"
)

// Value is the dynamic value representation passed between call sites,
// resolved routines, and the embedding host.
type Value interface {
	Type() ValueType
	Inspect() string
	Hash() uint32
}

// Helper for hashing strings
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
