// Package action exposes registered functions as a Fluxor action service so
// that workflows can call them like any other action.
package action
