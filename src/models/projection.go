package models

type ProjectionRequest struct {
	InitialAmount       float64
	MonthlyContribution float64
	AnnualRatePercent   float64
	Years               int
}

// SeriesPoint is one quarterly sample of a projection. Balance is rounded to
// a whole number.
type SeriesPoint struct {
	YearOffset float64
	Balance    float64
}

type ProjectionResult struct {
	TotalInvested float64
	TotalReturns  float64
	FinalAmount   float64
	Series        []SeriesPoint
}

// ChartPoint is the wire shape of a SeriesPoint.
type ChartPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SimulationResponse struct {
	TotalInvested float64      `json:"totalInvested"`
	TotalReturns  float64      `json:"totalReturns"`
	FinalAmount   float64      `json:"finalAmount"`
	ChartData     []ChartPoint `json:"chartData"`
}

func NewSimulationResponse(res ProjectionResult) SimulationResponse {
	points := make([]ChartPoint, len(res.Series))
	for i, p := range res.Series {
		points[i] = ChartPoint{X: p.YearOffset, Y: p.Balance}
	}
	return SimulationResponse{
		TotalInvested: res.TotalInvested,
		TotalReturns:  res.TotalReturns,
		FinalAmount:   res.FinalAmount,
		ChartData:     points,
	}
}
