package testutil

import "testing"

// Given, When, and Then helpers keep scenario tests readable without pulling
// in a BDD framework.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

// Scenario groups a named end-to-end flow within a test function.
func Scenario(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Scenario: "+desc, fn)
}
