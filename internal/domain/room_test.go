package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForName(t *testing.T) {
	assert.Equal(t, CategoryGeneral, CategoryForName("Geral 1"))
	assert.Equal(t, CategoryGeneral, CategoryForName("Geral 5"))
	assert.Equal(t, CategorySpecialized, CategoryForName("Geologia 1"))
	assert.Equal(t, CategorySpecialized, CategoryForName("Geral"))
	assert.Equal(t, CategorySpecialized, CategoryForName("geral 1"))
}

func TestPeriod(t *testing.T) {
	assert.True(t, PeriodMorning.IsValid())
	assert.True(t, PeriodAfternoon.IsValid())
	assert.False(t, Period("Noite").IsValid())
	assert.Less(t, PeriodMorning.Order(), PeriodAfternoon.Order())
}
