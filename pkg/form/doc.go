// Package form provides a small declarative form schema (ordered fields with
// per-field rules plus cross-field rules) and the State reducer that keeps
// field errors in step with every edit.
//
// A State is mutated through Set and SetDate, one edit at a time. Each edit
// recomputes the edited field's rules and any cross-field rule it takes part
// in; Validate re-runs everything at once before a submission.
package form
