package models_test

import (
	"testing"

	"github.com/rollcallhq/rollcall/internal/domain/models"
)

func TestIsValidFactionCode(t *testing.T) {
	for _, c := range models.AllFactionCodes {
		if !models.IsValidFactionCode(c) {
			t.Errorf("expected %q to be a known faction", c)
		}
	}

	// Handlers convert raw query/body strings before validating.
	if models.IsValidFactionCode(models.FactionCode("kgb")) {
		t.Error("expected an unknown code to be rejected")
	}
	if models.IsValidFactionCode(models.FactionCode("")) {
		t.Error("expected an empty code to be rejected")
	}
}
