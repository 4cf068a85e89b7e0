package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("Severe Thunderstorm Warning", "storm"))
	assert.True(t, HasAny("light rain", "snow", "RAIN"))
	assert.False(t, HasAny("clear sky", "rain", "cloud"))
	assert.False(t, HasAny("anything"))
}
