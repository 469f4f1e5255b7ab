package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeActive(t *testing.T) {
	hire := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	term := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	emp := Employee{HireDate: hire}
	assert.False(t, emp.Active(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, emp.Active(hire))
	assert.True(t, emp.Active(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))

	emp.TerminationDate = &term
	assert.True(t, emp.Active(term))
	assert.False(t, emp.Active(term.AddDate(0, 0, 1)))
}
