// Package models contains GORM persistence models that map to database tables.
// Domain types stay free of ORM tags; each model converts with ToDomain and
// FromDomain.
//
//   - base.go: BaseModel shared by entity tables
//   - obligation.go: payment_obligations
//   - directory.go: read-only tenant and property directory tables
//   - outbox.go: outbox_events for post-commit notification delivery
package models
