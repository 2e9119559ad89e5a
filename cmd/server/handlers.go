package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/creatorscook/insight-core/internal/ai"
	"github.com/creatorscook/insight-core/internal/compliance"
	"github.com/creatorscook/insight-core/internal/models"
	"github.com/creatorscook/insight-core/internal/pipeline"
	"github.com/creatorscook/insight-core/internal/storage"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type apiServer struct {
	store     storage.Store
	pipeline  *pipeline.Service
	generator *ai.Generator
}

// userID pulls the opaque identity-provider subject off the request. The
// core treats it purely as a scoping key.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, pipeline.ErrNoCredits):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, pipeline.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logrus.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *apiServer) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.pipeline.GetMetrics()))
}

func (s *apiServer) createProductHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "a product url is required")
		return
	}

	product, err := s.pipeline.CreateProduct(r.Context(), user, req.URL)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoCredits) {
			s.fail(w, err)
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Ingestion runs in the background; poll the product for status.
	go func() {
		if err := s.pipeline.Analyze(context.Background(), user, product.ID); err != nil {
			logrus.Errorf("Background analysis failed for product %s: %v", product.ID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, product)
}

func (s *apiServer) getProductHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	product, err := s.store.GetProduct(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// analyzeHandler re-enters a product from pending, which is also how a
// failed run is retried.
func (s *apiServer) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	productID := mux.Vars(r)["id"]

	if err := s.store.UpdateProductStatus(r.Context(), user, productID, models.StatusPending, ""); err != nil {
		s.fail(w, err)
		return
	}

	go func() {
		if err := s.pipeline.Analyze(context.Background(), user, productID); err != nil {
			logrus.Errorf("Background analysis failed for product %s: %v", productID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "analysis triggered"})
}

func (s *apiServer) cancelHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := s.pipeline.Cancel(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "analysis cancelled"})
}

func (s *apiServer) insightsHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}
	productID := mux.Vars(r)["id"]

	pain, err := s.store.GetInsightsByKind(r.Context(), user, productID, storage.KindPainPoint)
	if err != nil {
		s.fail(w, err)
		return
	}
	delight, err := s.store.GetInsightsByKind(r.Context(), user, productID, storage.KindDelightFactor)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AggregatedInsights{PainPoints: pain, DelightFactors: delight})
}

func (s *apiServer) packsHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	packs, err := s.store.ListPacks(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (s *apiServer) regenerateHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req struct {
		Themes []models.Theme `json:"themes"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := s.pipeline.Regenerate(r.Context(), user, mux.Vars(r)["id"], req.Themes); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "packs regenerated"})
}

func (s *apiServer) brandRulesHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var rules models.BrandRuleSet
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		writeError(w, http.StatusBadRequest, "invalid brand rule set")
		return
	}

	if err := s.store.UpdateBrandRules(r.Context(), user, mux.Vars(r)["id"], &rules); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// saveScriptHandler stores a script draft with a fresh compliance snapshot.
func (s *apiServer) saveScriptHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
		Content   string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id and content are required")
		return
	}

	product, err := s.store.GetProduct(r.Context(), user, req.ProductID)
	if err != nil {
		s.fail(w, err)
		return
	}

	script := &models.Script{
		ID:        req.ID,
		ProductID: req.ProductID,
		UserID:    user,
		Content:   req.Content,
		Status:    models.ScriptDraft,
	}
	compliance.Snapshot(script, product.BrandRules)

	if err := s.store.SaveScript(r.Context(), script); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (s *apiServer) getScriptHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	script, err := s.store.GetScript(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

// scanHandler is a stateless compliance pass over arbitrary content.
func (s *apiServer) scanHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string               `json:"content"`
		BrandRules *models.BrandRuleSet `json:"brand_rules,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	writeJSON(w, http.StatusOK, compliance.Analyze(req.Content, req.BrandRules))
}

func (s *apiServer) suggestHandler(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	script, err := s.store.GetScript(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}

	suggestions, err := s.generator.SuggestFixes(r.Context(), script.Content, script.ComplianceFlags)
	if err != nil {
		s.fail(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []models.ScriptSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
