// Package models holds the gorm row types of the reservation schema.
//
// Domain types in internal/domain/reservation carry no gorm tags; each model
// converts with ToDomain and a ...FromDomain constructor. Child rows point at
// their parent through a plain foreign key column, and ReservationAggregateModels
// lists them parents first, which is the order AutoMigrate and bulk inserts need.
// Column names and types mirror migrations/; tests on SQLite rely on AutoMigrate
// while PostgreSQL is always migrated with golang-migrate.
package models
