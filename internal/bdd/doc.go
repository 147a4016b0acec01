// Package bdd runs the Gherkin scenarios under features/ against the flight
// services backed by an in-memory sqlite store.
package bdd
