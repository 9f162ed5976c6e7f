// Package options implements the declarative option mechanism behind the
// doorkeeper-jwt configuration surface.
//
// A Registry is declared once, at package load, from a list of Specs. Each
// Spec names an option, its builder alias (the key used when writing the
// value), a default, and optionally a nested Registry when the option's value
// is itself built from a sub-sequence.
//
// A Builder executes a configuration sequence eagerly against a fresh Config
// and finalizes it via Build. Build is idempotent: it always returns the same
// Config instance and never re-runs the sequence.
//
// Default resolution is asymmetric on purpose:
//   - Spec.DefaultFunc is re-evaluated on every read that falls through to the
//     default, so producers can hand out fresh values (a new empty claims map,
//     a new random identifier) instead of one shared instance.
//   - Builder.SetFunc evaluates its producer exactly once, while the sequence
//     runs; reads return the stored result and never re-invoke the producer.
//
// Catalog:
//   - Declaration: NewRegistry, MustNewRegistry.
//   - Writing: Builder.Set, Builder.SetFunc, Builder.SetNested, Builder.SetAll.
//   - Reading: Config.Get, Config.IsSet, Config.Resolved, Config.Unmarshal.
//   - Errors: ErrDuplicateOption, ErrInvalidOption, ErrUnknownOption, all
//     carried inside OptionError for errors.Is/errors.As inspection.
package options
