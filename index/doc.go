// Package index defines the read-only vector search capability the
// retrieval core consumes, along with the repository abstraction backing a
// local index.
//
// The core never builds or mutates an index; it only issues Search calls.
// The index/badger sub-package provides a local BadgerDB-backed
// implementation, and index/mock provides scriptable test doubles.
package index
