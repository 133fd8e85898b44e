// Package docscout turns a (domain, application pattern) request into a
// validated bundle of reference knowledge: crawled documentation pages,
// extracted reusable code patterns, known pitfalls ("gotchas"), and a
// coverage score that gates downstream use of the bundle.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, trafilatura/).
package docscout
