package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hareru-app/backend/internal/auth"
	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/receipt"
)

type receiptRequest struct {
	// Text is OCR or plain receipt text. PDFBase64 carries a receipt PDF
	// instead; when both are set the text wins.
	Text      string `json:"text"`
	PDFBase64 string `json:"pdfBase64"`
}

// handleParseReceipt serves POST /parseReceipt. One model attempt, nothing
// cached; a parse the model cannot structure is the caller's 422.
func (s *Service) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	userID := auth.GetUserClaims(r.Context()).UID
	if _, ok := s.admit(w, r, userID, model.FeatureParseReceipt); !ok {
		return
	}

	var req receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Bad Request",
			Message: "Request body must be valid JSON.",
		})
		return
	}

	text := req.Text
	if text == "" && req.PDFBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:   "Bad Request",
				Message: "pdfBase64 is not valid base64.",
			})
			return
		}
		text, err = receipt.ExtractPDFText(data)
		if err != nil {
			s.logger.Warn("receipt PDF extraction failed", "user_id", userID, "error", err)
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{
				Error:   "Unprocessable Entity",
				Message: "Could not extract text from the receipt PDF.",
			})
			return
		}
	}
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "Bad Request",
			Message: "Provide receipt text or a base64-encoded PDF.",
		})
		return
	}

	extraction, err := s.receipts.Parse(r.Context(), text)
	if err != nil {
		if errors.Is(err, receipt.ErrUnparsable) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{
				Error:   "Unprocessable Entity",
				Message: "Could not read this receipt. Try a clearer photo or enter it manually.",
			})
			return
		}
		s.logger.Error("receipt parsing failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Internal Server Error",
			Message: "Failed to parse receipt. Please try again later.",
		})
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}

// handleAICoach serves POST /aiCoach. The feature is gated and quota-counted
// already so launch flips only this handler body.
func (s *Service) handleAICoach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	userID := auth.GetUserClaims(r.Context()).UID
	if _, ok := s.admit(w, r, userID, model.FeatureAICoach); !ok {
		return
	}

	s.logger.Info("aiCoach called", "user_id", userID)
	writeJSON(w, http.StatusNotImplemented, errorBody{
		Error:   "Not Implemented",
		Message: "AI coaching is coming soon.",
	})
}
