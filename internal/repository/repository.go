// Package repository contains the data access seams the progress engine
// reads and writes through: the step store, the package/component catalog
// providers, and the comment/file/link stores. Implementations live in
// subpackages (postgres for the shipped one, mocks for tests). No business
// logic here, strictly persistence operations keyed by opaque ids.
package repository
