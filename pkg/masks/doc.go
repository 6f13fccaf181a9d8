// Package masks provides value transforms applied to string fields after every
// change: Chilean RUT and phone formatting, date and time layouts with range
// autofix, and HTML sanitising. A Registry resolves masks by name for
// configuration-driven forms.
package masks
