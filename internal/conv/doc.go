// Package conv provides small helpers to move values between Fluxor action
// inputs/outputs and the generic maps used as function argument bags.
package conv
