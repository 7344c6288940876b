// Package store provides an in-memory, email-indexed implementation of the
// authgate UserStore contract. It is the reference store for tests and
// examples; production deployments supply their own durable implementation
// behind the same interface.
package store
