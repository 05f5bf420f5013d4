// Package ir provides the model types for uppmon documents.
//
// This package contains the typed fragments (locations, transitions,
// templates, documents), the typed constraint and signal forms used by
// monitor synthesis, the element tree those fragments render to, and the
// deterministic writer for that tree. All other internal packages import
// ir; ir imports nothing internal.
//
// Key design constraints:
//   - Fragments are values. Nothing in ir mutates a fragment after it is built.
//   - Location ids are plain integers; the textual form "id<N>" is produced
//     only at the element boundary (see RefID).
//   - Empty strings mean "absent" for every optional label.
//   - Comparator tightening is a typed operation over Constraint, never a
//     textual substitution.
package ir
