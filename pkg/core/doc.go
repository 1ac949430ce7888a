// Package core defines the shared language of the leaplook system.
//
// This package contains:
//   - Domain entities (Model, Column, Exposure, CatalogNode)
//   - LookML vocabulary (LookerType, AggregateType, JoinType, Relationship)
//   - Configuration types (TargetConfig, AdapterConfig)
//   - Typed errors shared across packages
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
