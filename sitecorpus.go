// Package sitecorpus incrementally harvests text from websites. It reads
// sitemaps, detects changed pages, extracts readable text under per-site
// CSS selector rules, stores one text file per page and reassembles the
// stored text into a master corpus split into size-bounded parts.
//
// This package contains domain types, interfaces and the pure assembly
// algorithm following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g.,
// goquery/, sqlite/, http/).
package sitecorpus
