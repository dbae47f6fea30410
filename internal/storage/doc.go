// Package storage provides interchangeable persistence backends for the
// reconciled event set: a JSON snapshot file for single-host setups and
// a Postgres table for shared deployments. Both key on the source URL.
package storage
