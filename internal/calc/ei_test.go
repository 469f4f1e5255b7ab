package calc

import (
	"testing"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testEIParams() domain.EIParams {
	return domain.EIParams{
		Year:                    2025,
		MaxInsurableEarnings:    money.New(65700.00),
		EmployeeRate:            "0.0164",
		EmployerMultiplier:      "1.4",
		MaxEmployeeContribution: money.New(1077.48),
	}
}

func TestEICalculate(t *testing.T) {
	calc := EICalculator{Params: testEIParams()}
	result := calc.Calculate(money.New(2000.00), false, domain.YTDAccumulator{})

	assert.True(t, result.InsurableEarnings.Equal(money.New(2000.00)))
	assert.True(t, result.EmployeeContribution.IsPositive())
	// Employer share is exactly 1.4x the employee share.
	assert.True(t, result.EmployerContribution.Equal(result.EmployeeContribution.Mul(mustDecimal("1.4"))))
}

func TestEIExempt(t *testing.T) {
	calc := EICalculator{Params: testEIParams()}
	result := calc.Calculate(money.New(2000.00), true, domain.YTDAccumulator{})
	assert.True(t, result.EmployeeContribution.IsZero())
	assert.True(t, result.EmployerContribution.IsZero())
}

func TestEICapAtMaxInsurableEarnings(t *testing.T) {
	params := testEIParams()
	calc := EICalculator{Params: params}

	ytd := domain.YTDAccumulator{InsurableEarnings: params.MaxInsurableEarnings}
	result := calc.Calculate(money.New(5000.00), false, ytd)
	assert.True(t, result.InsurableEarnings.IsZero())
	assert.True(t, result.EmployeeContribution.IsZero())
}

func TestEIMaxContributionCapRespected(t *testing.T) {
	params := testEIParams()
	calc := EICalculator{Params: params}

	ytd := domain.YTDAccumulator{
		InsurableEarnings: money.New(1000.00),
		EIContribution:    params.MaxEmployeeContribution.Sub(money.New(5.00)),
	}
	result := calc.Calculate(money.New(60000.00), false, ytd)
	assert.True(t, result.EmployeeContribution.LessThanOrEqual(money.New(5.00)))
}
