// Package field implements the per-field state machine of a form: value,
// touched/changed/valid flags, validation and mask mutators, and the
// coordination of asynchronous validation and props resolution.
//
// Fields never own goroutines. Continuations produced elsewhere (resolved
// futures, debounce timers) are posted to the form's dispatcher, so every
// state transition runs on the host's loop. Only the most recently issued
// asynchronous request per field and category is applied; earlier results are
// dropped when they arrive.
package field
