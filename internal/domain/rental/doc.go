// Package rental contains the domain model for monthly rent obligations.
//
// An obligation is one tenant's expected payment for one property for one
// calendar month. At most one obligation exists per (tenant, property, month)
// key; the store enforces this with a unique index and creation treats a
// duplicate-key insert as "already exists".
//
// The package also holds the calendar rules that drive payment reminders
// (target period and trigger date) and the keep rule used when collapsing
// duplicate records. Everything here is free of I/O; the ports in
// repository.go and directory.go are implemented in infrastructure.
package rental
