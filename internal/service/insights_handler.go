package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hareru-app/backend/internal/auth"
	"github.com/hareru-app/backend/internal/locale"
	"github.com/hareru-app/backend/internal/model"
)

type insightsRequest struct {
	YearMonth string `json:"yearMonth"`
	Locale    string `json:"locale"`
}

// handleGenerateInsights serves POST /generateInsights. The body is
// optional: yearMonth defaults to the current month in the operating
// timezone and locale defaults to Japanese.
func (s *Service) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	userID := auth.GetUserClaims(r.Context()).UID
	if _, ok := s.admit(w, r, userID, model.FeatureGenerateInsights); !ok {
		return
	}

	var req insightsRequest
	// An empty body is fine, malformed JSON is not.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Bad Request",
			Message: "Request body must be valid JSON.",
		})
		return
	}

	yearMonth := req.YearMonth
	if yearMonth == "" {
		yearMonth = model.FormatYearMonth(s.now().In(s.loc))
	}
	if _, _, err := model.ParseYearMonth(yearMonth); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Bad Request",
			Message: "yearMonth must be formatted as YYYY-MM.",
		})
		return
	}

	loc := locale.Resolve(req.Locale)

	insight, err := s.insights.Run(r.Context(), userID, yearMonth, loc)
	if err != nil {
		s.logger.Error("failed to generate insights", "user_id", userID, "year_month", yearMonth, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Internal Server Error",
			Message: "Failed to generate insights. Please try again later.",
		})
		return
	}

	writeJSON(w, http.StatusOK, insight)
}
