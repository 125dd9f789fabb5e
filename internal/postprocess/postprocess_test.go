package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunZeroValueIsNoOp(t *testing.T) {
	text := `this->x = cast<int>(p); //CPP: marker`
	assert.Equal(t, text, Run(text, Options{}))
}

func TestRunDefaultAppliesAllThreeSubstitutions(t *testing.T) {
	text := `this->x = cast<int>(p); //CPP: marker`
	got := Run(text, Default())
	assert.Contains(t, got, "_this->x")
	assert.Contains(t, got, "reinterpret_cast<int>(p)")
	assert.NotContains(t, got, "//CPP:")
}

func TestRunThisSubstitutionOnlyWhenConfigured(t *testing.T) {
	got := Run("this->x = 1;", Options{CastSpelling: "reinterpret_cast<"})
	assert.Contains(t, got, "this->x = 1;")
}

func TestRunStripMarkerCommentLeavesRestOfLineIntact(t *testing.T) {
	got := Run("int x = 1; //CPP: keep rest of line intact", Default())
	assert.Contains(t, got, "int x = 1;   keep rest of line intact")
}
