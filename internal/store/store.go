// Package store defines the persistence interfaces for organizations, memberships, users,
// sessions and posts, together with their sentinel errors.
//
// Two implementations exist: store/memory for tests and local development, and
// store/postgres for production. Both enforce post title and slug uniqueness at write time.
package store
