// Package form coordinates the fields of one form: it builds them from a
// schema, aggregates their touched/changed/valid flags through shared
// counters, runs the initial validation once and tears everything down on
// Close.
//
// A Form is single threaded. Call its methods, and those of its fields, from
// the goroutine that pumps its dispatcher. The default dispatcher is a
// dispatch.Loop available through Loop; hosts either Drain it after each event
// or hand it to Run and route calls through Do.
package form
