package finance

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"finsentinel-server/src/models"
)

func TestProjectExample(t *testing.T) {
	res, err := Project(models.ProjectionRequest{
		InitialAmount:       10000,
		MonthlyContribution: 5000,
		AnnualRatePercent:   12,
		Years:               1,
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if res.TotalInvested != 70000 {
		t.Errorf("TotalInvested = %v, want 70000", res.TotalInvested)
	}
	if res.FinalAmount != 74681 {
		t.Errorf("FinalAmount = %v, want 74681", res.FinalAmount)
	}
	if res.TotalReturns != 4681 {
		t.Errorf("TotalReturns = %v, want 4681", res.TotalReturns)
	}

	want := []models.SeriesPoint{
		{YearOffset: 0, Balance: 10000},
		{YearOffset: 0.25, Balance: 25454},
		{YearOffset: 0.5, Balance: 41375},
		{YearOffset: 0.75, Balance: 57779},
		{YearOffset: 1, Balance: 74681},
	}
	if !reflect.DeepEqual(res.Series, want) {
		t.Errorf("Series = %+v, want %+v", res.Series, want)
	}
}

func TestProjectPureCompoundGrowth(t *testing.T) {
	tests := []struct {
		initial float64
		rate    float64
		years   int
	}{
		{1000, 6, 2},
		{2500, 4.5, 10},
		{1, 12, 30},
		{99999, 7, 25},
	}

	for _, tt := range tests {
		res, err := Project(models.ProjectionRequest{InitialAmount: tt.initial, AnnualRatePercent: tt.rate, Years: tt.years})
		if err != nil {
			t.Fatalf("Project() error = %v", err)
		}
		want := math.Round(tt.initial * math.Pow(1+tt.rate/100/12, float64(tt.years*12)))
		// Repeated multiplication and Pow can differ in the last ulp.
		if math.Abs(res.FinalAmount-want) > 1 {
			t.Errorf("initial=%v rate=%v years=%d: FinalAmount = %v, want %v", tt.initial, tt.rate, tt.years, res.FinalAmount, want)
		}
		if res.TotalInvested != tt.initial {
			t.Errorf("TotalInvested = %v, want %v", res.TotalInvested, tt.initial)
		}
	}
}

func TestProjectZeroRateIsLinear(t *testing.T) {
	res, err := Project(models.ProjectionRequest{InitialAmount: 500, MonthlyContribution: 100, Years: 3})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if res.FinalAmount != 4100 {
		t.Errorf("FinalAmount = %v, want 4100", res.FinalAmount)
	}
	if res.TotalReturns != 0 {
		t.Errorf("TotalReturns = %v, want 0", res.TotalReturns)
	}
	if len(res.Series) != 13 {
		t.Fatalf("len(Series) = %d, want 13", len(res.Series))
	}
	if got := res.Series[4]; got.YearOffset != 1 || got.Balance != 1700 {
		t.Errorf("Series[4] = %+v, want {1 1700}", got)
	}
}

func TestProjectZeroYears(t *testing.T) {
	res, err := Project(models.ProjectionRequest{InitialAmount: 1234.6, MonthlyContribution: 100, AnnualRatePercent: 10})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	want := []models.SeriesPoint{{YearOffset: 0, Balance: 1235}}
	if !reflect.DeepEqual(res.Series, want) {
		t.Errorf("Series = %+v, want %+v", res.Series, want)
	}
	if res.FinalAmount != 1235 || res.TotalReturns != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestProjectSeriesShape(t *testing.T) {
	for years := 0; years <= 7; years++ {
		res, err := Project(models.ProjectionRequest{InitialAmount: 321.4, MonthlyContribution: 10, AnnualRatePercent: 5, Years: years})
		if err != nil {
			t.Fatalf("Project() error = %v", err)
		}
		if res.Series[0].YearOffset != 0 || res.Series[0].Balance != 321 {
			t.Errorf("years=%d: first point = %+v", years, res.Series[0])
		}
		last := res.Series[len(res.Series)-1]
		lastMonth := (years * 12 / 3) * 3
		if last.YearOffset != float64(lastMonth)/12 {
			t.Errorf("years=%d: last offset = %v, want %v", years, last.YearOffset, float64(lastMonth)/12)
		}
		if last.Balance != res.FinalAmount {
			t.Errorf("years=%d: last balance %v != final %v", years, last.Balance, res.FinalAmount)
		}
	}
}

func TestProjectNegativeRate(t *testing.T) {
	res, err := Project(models.ProjectionRequest{InitialAmount: 1000, AnnualRatePercent: -12, Years: 1})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if res.TotalReturns >= 0 {
		t.Errorf("TotalReturns = %v, want negative", res.TotalReturns)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	req := models.ProjectionRequest{InitialAmount: 777.77, MonthlyContribution: 33.3, AnnualRatePercent: 8.25, Years: 17}
	a, errA := Project(req)
	b, errB := Project(req)
	if errA != nil || errB != nil {
		t.Fatalf("Project() errors = %v, %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical requests produced different results")
	}
}

func TestProjectValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ProjectionRequest
	}{
		{"negative initial", models.ProjectionRequest{InitialAmount: -1, Years: 1}},
		{"negative contribution", models.ProjectionRequest{MonthlyContribution: -5, Years: 1}},
		{"negative years", models.ProjectionRequest{Years: -1}},
		{"too many years", models.ProjectionRequest{Years: MaxProjectionYears + 1}},
		{"nan rate", models.ProjectionRequest{AnnualRatePercent: math.NaN(), Years: 1}},
		{"infinite initial", models.ProjectionRequest{InitialAmount: math.Inf(1), Years: 1}},
		{"overflowing result", models.ProjectionRequest{InitialAmount: math.MaxFloat64, AnnualRatePercent: 100, Years: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.req)
			if !errors.Is(err, ErrInvalidProjection) {
				t.Errorf("Project() error = %v, want ErrInvalidProjection", err)
			}
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.5, 3},
		{2.4999, 2},
		{-2.5, -2},
		{-2.6, -3},
		{0.49999999999999994, 0},
		{74680.76536730457, 74681},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
