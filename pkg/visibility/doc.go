// Package visibility shows and hides fields based on the values of other
// fields. Rules are small boolean expressions compiled once:
//
//	plan == "team" && seats > 1
//	!newsletter || email != ""
//	person.rut
//
// Identifiers name field keys. A bare identifier is true when the value is
// set (non-empty string or list, true, non-zero number). Comparisons support
// ==, != against strings, numbers, booleans and null, and <, <=, >, >=
// against numbers.
package visibility
