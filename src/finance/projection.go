package finance

import (
	"errors"
	"fmt"

	"finsentinel-server/src/models"
)

// MaxProjectionYears caps the simulated horizon.
const MaxProjectionYears = 100

// seriesStepMonths is the sampling interval of the projection series.
const seriesStepMonths = 3

var ErrInvalidProjection = errors.New("invalid projection request")

// Project simulates monthly compounding of an initial amount plus a fixed
// monthly contribution. Contributions are added after the month's growth is
// applied, so a contribution earns nothing in the month it is made.
func Project(req models.ProjectionRequest) (models.ProjectionResult, error) {
	if err := validateProjection(req); err != nil {
		return models.ProjectionResult{}, err
	}

	monthlyRate := req.AnnualRatePercent / 100 / 12
	totalMonths := req.Years * 12

	balance := req.InitialAmount
	series := make([]models.SeriesPoint, 0, totalMonths/seriesStepMonths+1)
	for m := 0; m <= totalMonths; m++ {
		if m > 0 {
			balance = balance*(1+monthlyRate) + req.MonthlyContribution
		}
		if m%seriesStepMonths == 0 {
			series = append(series, models.SeriesPoint{
				YearOffset: float64(m) / 12,
				Balance:    roundHalfUp(balance),
			})
		}
	}

	totalInvested := req.InitialAmount + req.MonthlyContribution*float64(totalMonths)
	totalReturns := balance - totalInvested
	if !isFinite(balance) || !isFinite(totalInvested) || !isFinite(totalReturns) {
		return models.ProjectionResult{}, fmt.Errorf("%w: result is not a finite number", ErrInvalidProjection)
	}

	return models.ProjectionResult{
		TotalInvested: roundHalfUp(totalInvested),
		TotalReturns:  roundHalfUp(totalReturns),
		FinalAmount:   roundHalfUp(balance),
		Series:        series,
	}, nil
}

func validateProjection(req models.ProjectionRequest) error {
	switch {
	case !isFinite(req.InitialAmount) || !isFinite(req.MonthlyContribution) || !isFinite(req.AnnualRatePercent):
		return fmt.Errorf("%w: amounts and rate must be finite numbers", ErrInvalidProjection)
	case req.InitialAmount < 0:
		return fmt.Errorf("%w: initial amount must not be negative", ErrInvalidProjection)
	case req.MonthlyContribution < 0:
		return fmt.Errorf("%w: monthly contribution must not be negative", ErrInvalidProjection)
	case req.Years < 0:
		return fmt.Errorf("%w: years must not be negative", ErrInvalidProjection)
	case req.Years > MaxProjectionYears:
		return fmt.Errorf("%w: years must be at most %d", ErrInvalidProjection, MaxProjectionYears)
	}
	return nil
}
