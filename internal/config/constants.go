package config

// Version is the runtime core version reported by embedders.
const Version = "0.3.1"

// MaxInheritanceDepth bounds the base-class walk during method resolution.
// The symbol environment rejects cyclic parent links at registration, so a
// well-formed class graph never gets near this; the bound protects against
// a misbehaving external SymbolSource.
const MaxInheritanceDepth = 256

// MethodSeparator splits "Class::method" callable names.
const MethodSeparator = "::"

// Built-in function names
const (
	CallUserFuncName      = "call_user_func"
	CallUserFuncArrayName = "call_user_func_array"
	IsCallableFuncName    = "is_callable"
	ArrayMapFuncName      = "array_map"
	ArrayFilterFuncName   = "array_filter"
	ArrayWalkFuncName     = "array_walk"
	UsortFuncName         = "usort"
	StrlenFuncName        = "strlen"
	StrtoupperFuncName    = "strtoupper"
)

// Diagnostic level names accepted in settings files.
const (
	LevelNameNotice  = "notice"
	LevelNameWarning = "warning"
	LevelNameError   = "error"
	LevelNameSilent  = "silent"
)

// DefaultDiagLevel is used when no settings file overrides it.
const DefaultDiagLevel = LevelNameWarning
