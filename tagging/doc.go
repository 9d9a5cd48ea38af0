// Package tagging generates human-facing asset tags from a pattern
// string and the current registry state.
//
// A pattern mixes literal text with tokens: {CLASS}, {SITE}, {BLDG},
// {STRY}, and {CUSTOM} substitute caller-supplied context strings, and
// {N} or {N:width} substitutes a counter, zero-padded when a width is
// given. Counters run either globally across a batch or independently
// per normalized classification.
//
// When uniqueness is enabled, each rendered candidate is checked against
// the set of tags already in use; a collision advances the counter and
// re-renders. The retry loop is bounded: past the configured attempt
// ceiling the batch fails with ErrExhausted instead of spinning forever.
//
// The engine operates purely on the model's data. It knows nothing about
// the interchange format beyond stripping its classification prefix when
// shortening labels for {CLASS}.
package tagging
