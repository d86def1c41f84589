package apitest

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// tiers mirrors the plans the backend offers
var tiers = []models.Tier{
	{Tier: types.TierFree, Name: "Free", MaxCards: 100, MaxTrendInsights: 3, Price: 0, PricePeriod: "month"},
	{Tier: types.TierPro, Name: "Pro", MaxCards: 1000, MaxTrendInsights: 20, Price: 9.99, PricePeriod: "month"},
	{Tier: types.TierPremium, Name: "Premium", MaxCards: 10000, MaxTrendInsights: 100, Price: 19.99, PricePeriod: "month"},
}

func tierInfo(t types.SubscriptionTier) (models.Tier, bool) {
	for _, tier := range tiers {
		if tier.Tier == t {
			return tier, true
		}
	}
	return models.Tier{}, false
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseJSONBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}
	if in.Email != UserEmail || in.Password != UserPassword {
		respondDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sess := s.Session()
	respondData(w, map[string]interface{}{
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
		"expires_in":    900,
		"user":          sess.User,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.dashboard
	s.mu.Unlock()

	if stats == nil {
		respondOK(w)
		return
	}
	respondData(w, stats)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	items := make([]models.InventoryEntry, 0, len(s.inventory))
	search := strings.ToLower(q.Get("search"))
	for _, e := range s.inventory {
		if search != "" && !strings.Contains(strings.ToLower(e.Card.Name), search) &&
			!strings.Contains(strings.ToLower(e.Card.Set.Code), search) {
			continue
		}
		if c := q.Get("condition"); c != "" && string(e.Condition) != c {
			continue
		}
		if set := q.Get("set_id"); set != "" && e.Card.Set.ID != set {
			continue
		}
		items = append(items, e)
	}
	s.mu.Unlock()

	if q.Get("sort_by") == "value" {
		asc := q.Get("sort_order") == "asc"
		sort.SliceStable(items, func(i, j int) bool {
			if asc {
				return items[i].Amount() < items[j].Amount()
			}
			return items[i].Amount() > items[j].Amount()
		})
	}

	total := len(items)
	limit := total
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
		if len(items) > l {
			items = items[:l]
		}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	respondData(w, models.InventoryPage{
		Items:      items,
		Pagination: &models.Pagination{Page: 1, Limit: limit, Total: total, TotalPages: totalPages},
	})
}

func (s *Server) handleDeleteInventory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.inventory {
		if e.ID == id {
			s.inventory = append(s.inventory[:i], s.inventory[i+1:]...)
			respondOK(w)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Inventory entry not found")
}

func (s *Server) handleUploadScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Image is required")
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	scanType := r.FormValue("scan_type")
	if scanType == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "scan_type is required")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "File must be an image")
		return
	}

	s.mu.Lock()
	id := uuid.NewString()
	sc := &scan{
		id:       id,
		scanType: scanType,
		imageURL: "/uploads/" + id + ".jpg",
		plan:     s.plan,
	}
	s.scans[id] = sc
	s.uploads = append(s.uploads, Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        len(data),
		ScanType:    scanType,
	})
	s.mu.Unlock()

	respondData(w, models.ScanReceipt{
		ScanID:                  id,
		Status:                  sc.plan.UploadStatus,
		ImageURL:                sc.imageURL,
		EstimatedProcessingSecs: 5,
	})
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	sc, ok := s.scans[id]
	if !ok {
		s.mu.Unlock()
		respondDetail(w, http.StatusNotFound, "Scan not found")
		return
	}
	status := types.ScanStatusProcessing
	if n := len(sc.plan.Statuses); n > 0 {
		idx := sc.polls
		if idx >= n {
			idx = n - 1
		}
		status = sc.plan.Statuses[idx]
	}
	sc.polls++
	record := models.ScanRecord{
		ScanID:        sc.id,
		Status:        status,
		ScanType:      types.ScanType(sc.scanType),
		ImageURL:      sc.imageURL,
		DetectedCards: []models.Detection{},
	}
	if status == types.ScanStatusCompleted {
		record.DetectedCards = append(record.DetectedCards, sc.plan.Detections...)
		processed := time.Now().UTC().Format(time.RFC3339)
		record.ProcessedAt = &processed
	}
	s.mu.Unlock()

	respondData(w, record)
}

func (s *Server) handleSaveScan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in struct {
		CardIDs []string `json:"card_ids"`
	}
	if err := parseJSONBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[id]; !ok {
		respondDetail(w, http.StatusNotFound, "Scan not found")
		return
	}
	s.savedCardIDs = append(s.savedCardIDs, in.CardIDs)

	entries := make([]models.SavedEntry, 0, len(in.CardIDs))
	for _, cardID := range in.CardIDs {
		entries = append(entries, models.SavedEntry{ID: s.newID("entry"), CardName: cardID})
	}
	info, _ := tierInfo(s.tier)
	respondData(w, models.SaveResult{
		SavedCount:       len(in.CardIDs),
		InventoryEntries: entries,
		CardLimit:        info.MaxCards,
		CurrentCount:     len(s.inventory) + len(in.CardIDs),
	})
}

func (s *Server) handleListWants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, append([]models.Want{}, s.wants...))
}

func (s *Server) handleCreateWant(w http.ResponseWriter, r *http.Request) {
	var in models.WantInput
	if err := parseJSONBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}
	if strings.TrimSpace(in.CardName) == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "card_name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	want := models.Want{
		ID:           s.newID("want"),
		CardName:     strings.TrimSpace(in.CardName),
		SetCode:      in.SetCode,
		MinCondition: in.MinCondition,
		MaxPrice:     in.MaxPrice,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	s.wants = append([]models.Want{want}, s.wants...)
	respondData(w, map[string]string{"id": want.ID})
}

func (s *Server) handleDeleteWant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, want := range s.wants {
		if want.ID == id {
			s.wants = append(s.wants[:i], s.wants[i+1:]...)
			kept := s.matches[:0]
			for _, m := range s.matches {
				if m.WantID != id {
					kept = append(kept, m)
				}
			}
			s.matches = kept
			respondOK(w)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Want not found")
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, append([]models.Match{}, s.matches...))
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, append([]models.Notification{}, s.notifications...))
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	respondData(w, models.UnreadCount{Count: count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			respondOK(w)
			return
		}
	}
	respondDetail(w, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, s.settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.Settings
	if err := parseJSONBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.InventoryPublic = in.InventoryPublic
	s.settings.MarketplaceEnabled = in.MarketplaceEnabled
	s.settings.NotificationInApp = in.NotificationInApp
	s.settings.City = trimmed(in.City)
	s.settings.StateProvince = trimmed(in.StateProvince)
	s.settings.Country = trimmed(in.Country)
	respondOK(w)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tier := s.tier
	s.mu.Unlock()

	info, _ := tierInfo(tier)
	respondData(w, models.Subscription{
		Tier:             tier,
		TierName:         info.Name,
		MaxCards:         info.MaxCards,
		MaxTrendInsights: info.MaxTrendInsights,
		Price:            info.Price,
		PricePeriod:      info.PricePeriod,
	})
}

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
	respondData(w, tiers)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Tier types.SubscriptionTier `json:"tier"`
	}
	if err := parseJSONBody(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body")
		return
	}
	info, ok := tierInfo(in.Tier)
	if !ok {
		respondDetail(w, http.StatusBadRequest, "Invalid subscription tier")
		return
	}

	s.mu.Lock()
	s.tier = in.Tier
	s.mu.Unlock()

	respondData(w, models.UpgradeResult{
		Tier:     in.Tier,
		TierName: info.Name,
		Message:  fmt.Sprintf("Successfully upgraded to %s!", info.Name),
	})
}
