package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"finsentinel-server/src/finance"
	"finsentinel-server/src/logger"
	"finsentinel-server/src/models"
	"finsentinel-server/src/util"
)

// simulationRequest accepts numbers or numeric strings. Type is accepted and
// ignored.
type simulationRequest struct {
	Type                string           `json:"type"`
	InitialAmount       *decimal.Decimal `json:"initialAmount"`
	MonthlyContribution *decimal.Decimal `json:"monthlyContribution"`
	InterestRate        *decimal.Decimal `json:"interestRate"`
	Years               *decimal.Decimal `json:"years"`
}

func RunSimulation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req simulationRequest
		if err := decodeBody(r, &req); err != nil {
			log.Warn().Err(err).Msg("failed to decode simulation request")
			util.WriteError(w, http.StatusBadRequest, "All fields must be numeric")
			return
		}

		if req.InitialAmount == nil || req.MonthlyContribution == nil || req.InterestRate == nil || req.Years == nil {
			util.WriteError(w, http.StatusBadRequest, "Please provide all required fields")
			return
		}

		// years is truncated to whole years
		years := req.Years.IntPart()
		if years < 1 {
			util.WriteError(w, http.StatusBadRequest, "Years must be at least 1")
			return
		}
		if years > finance.MaxProjectionYears {
			util.WriteError(w, http.StatusBadRequest, "Years must not exceed 100")
			return
		}

		result, err := finance.Project(models.ProjectionRequest{
			InitialAmount:       req.InitialAmount.InexactFloat64(),
			MonthlyContribution: req.MonthlyContribution.InexactFloat64(),
			AnnualRatePercent:   req.InterestRate.InexactFloat64(),
			Years:               int(years),
		})
		if err != nil {
			if errors.Is(err, finance.ErrInvalidProjection) {
				util.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Error().Err(err).Msg("simulation failed")
			util.WriteError(w, http.StatusInternalServerError, "Simulation error")
			return
		}

		util.WriteSuccess(w, http.StatusOK, models.NewSimulationResponse(result))
	}
}
