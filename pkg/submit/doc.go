// Package submit implements the submit operation shared by the account forms:
// re-validate, send once, interpret the response, then notify, persist and
// navigate.
//
// The pipeline moves Idle -> Validating -> (Invalid -> Idle) |
// (Submitting -> Success -> Idle with the form reset | Failure -> Idle).
// At most one submission per Handler is in flight; Busy mirrors the disabled
// submit control and is always cleared when Submit returns.
package submit
