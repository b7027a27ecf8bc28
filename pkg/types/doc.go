// Package types defines the entity types, enums, configuration, collaborator
// interfaces, and standard errors shared by the nutrio store, the nutrition
// scaling engine, and the grocery engine.
//
// Types here carry no storage or presentation logic. Nullable profile and
// recipe fields are pointers; absence is never encoded as 0 or "".
package types
