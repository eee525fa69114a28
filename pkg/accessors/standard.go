package accessors

import "kestrel/pkg/vm"

var (
	hiddenReadOnly = Attributes{}
	hiddenWritable = Attributes{Writable: true}
)

// ArrayLength is the "length" accessor for arrays.
var ArrayLength = &Descriptor{
	Name:  "length",
	Get:   arrayLengthGetter,
	Set:   arrayLengthSetter,
	Attrs: hiddenWritable,
}

// StringLength is the "length" accessor for strings and String wrappers.
// It has no setter: writes are silently ignored.
var StringLength = &Descriptor{
	Name:  "length",
	Get:   stringLengthGetter,
	Attrs: Attributes{AllCanRead: true},
}

// FunctionPrototype is the lazily materialized "prototype" accessor.
var FunctionPrototype = &Descriptor{
	Name:  "prototype",
	Get:   functionPrototypeGetter,
	Set:   functionPrototypeSetter,
	Attrs: hiddenWritable,
}

// FunctionLength is the formal-parameter-count accessor; the read may
// trigger compilation.
var FunctionLength = &Descriptor{
	Name:  "length",
	Get:   functionLengthGetter,
	Attrs: hiddenReadOnly,
}

// FunctionName projects the function's declared name.
var FunctionName = &Descriptor{
	Name:  "name",
	Get:   functionNameGetter,
	Attrs: hiddenReadOnly,
}

// FunctionArguments reconstructs the innermost live argument list.
var FunctionArguments = &Descriptor{
	Name:  "arguments",
	Get:   functionArgumentsGetter,
	Attrs: hiddenReadOnly,
}

// FunctionCaller attributes a caller to the innermost live activation.
var FunctionCaller = &Descriptor{
	Name:  "caller",
	Get:   functionCallerGetter,
	Attrs: hiddenReadOnly,
}

// Script metadata projections. All of them are read-only; the explicit
// ReadOnlySetter documents that writes are swallowed rather than routed.
var (
	ScriptID                   = scriptDescriptor("id", scriptIDGetter)
	ScriptName                 = scriptDescriptor("name", scriptNameGetter)
	ScriptSource               = scriptDescriptor("source", scriptSourceGetter)
	ScriptTypeAccessor         = scriptDescriptor("type", scriptTypeGetter)
	ScriptCompilationType      = scriptDescriptor("compilation_type", scriptCompilationTypeGetter)
	ScriptLineOffset           = scriptDescriptor("line_offset", scriptLineOffsetGetter)
	ScriptColumnOffset         = scriptDescriptor("column_offset", scriptColumnOffsetGetter)
	ScriptContextData          = scriptDescriptor("context_data", scriptContextDataGetter)
	ScriptLineEnds             = scriptDescriptor("line_ends", scriptLineEndsGetter)
	ScriptEvalFromScript       = scriptDescriptor("eval_from_script", scriptEvalFromScriptGetter)
	ScriptEvalFromScriptPos    = scriptDescriptor("eval_from_script_position", scriptEvalFromScriptPositionGetter)
	ScriptEvalFromFunctionName = scriptDescriptor("eval_from_function_name", scriptEvalFromFunctionNameGetter)
)

func scriptDescriptor(name string, get Getter) *Descriptor {
	return &Descriptor{Name: name, Get: get, Set: ReadOnlySetter, Attrs: hiddenReadOnly}
}

// InstallDefaults installs the standard accessors on the current realm's
// templates. Safe to call once per realm; a second call is a no-op because
// reinstalling the same descriptors is idempotent.
func InstallDefaults(ix *vm.Isolate, reg *Registry) {
	InstallDefaultsForRealm(ix.CurrentRealm(), reg)
}

// InstallDefaultsForRealm installs the standard accessors on an arbitrary
// realm's templates.
func InstallDefaultsForRealm(realm *vm.Realm, reg *Registry) {
	if !realm.IsInitialized() {
		panic("installing accessors on an uninitialized realm")
	}

	reg.Install(realm.ArrayPrototype, ArrayLength)
	reg.Install(realm.StringPrototype, StringLength)

	reg.Install(realm.FunctionPrototype, FunctionPrototype)
	reg.Install(realm.FunctionPrototype, FunctionLength)
	reg.Install(realm.FunctionPrototype, FunctionName)
	reg.Install(realm.FunctionPrototype, FunctionArguments)
	reg.Install(realm.FunctionPrototype, FunctionCaller)

	for _, d := range []*Descriptor{
		ScriptID,
		ScriptName,
		ScriptSource,
		ScriptTypeAccessor,
		ScriptCompilationType,
		ScriptLineOffset,
		ScriptColumnOffset,
		ScriptContextData,
		ScriptLineEnds,
		ScriptEvalFromScript,
		ScriptEvalFromScriptPos,
		ScriptEvalFromFunctionName,
	} {
		reg.Install(realm.ScriptTemplate, d)
	}
}
