// Package projection pairs a stored aggregate with its persistence timestamps.
package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Created stamps a first write at t.
func Created(t time.Time) Metadata {
	return Metadata{CreatedAt: t, UpdatedAt: t}
}

// Revised keeps CreatedAt and moves UpdatedAt to t.
func (m Metadata) Revised(t time.Time) Metadata {
	m.UpdatedAt = t
	return m
}

// Projection represents an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New wraps entity with metadata.
func New[T any](entity T, metadata Metadata) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: metadata}
}
