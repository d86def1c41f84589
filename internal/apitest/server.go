// Package apitest provides an in-process CardVault API for tests.
// It keeps all state in memory, counts requests per route and can inject faults.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/types"
	"github.com/gorilla/mux"
)

// Default credentials accepted by the login route
const (
	UserEmail    = "collector@example.com"
	UserPassword = "hunter2"
)

// Request is one recorded call
type Request struct {
	Route         string // method plus mux path template, e.g. "GET /api/v1/scans/{id}"
	Path          string
	Query         url.Values
	Authorization string
	RequestID     string
}

// Fault replaces the response of a route.
// Times is the number of requests affected; 0 means every request.
type Fault struct {
	Status int
	Body   string
	Delay  time.Duration
	Times  int
}

// ScanPlan scripts how uploaded scans progress. Each GET of a scan returns
// the next status; the last one repeats.
type ScanPlan struct {
	UploadStatus types.ScanStatus
	Statuses     []types.ScanStatus
	Detections   []models.Detection
}

// Upload records what the client sent to the upload route
type Upload struct {
	Filename    string
	ContentType string
	Size        int
	ScanType    string
}

type scan struct {
	id       string
	scanType string
	imageURL string
	polls    int
	plan     ScanPlan
}

// Server is a fake CardVault API backed by httptest.Server
type Server struct {
	AccessToken string

	router *mux.Router
	http   *httptest.Server
	logger *logging.Logger

	mu            sync.Mutex
	requests      []Request
	faults        map[string]*Fault
	plan          ScanPlan
	scans         map[string]*scan
	uploads       []Upload
	savedCardIDs  [][]string
	dashboard     *models.DashboardStats
	inventory     []models.InventoryEntry
	wants         []models.Want
	matches       []models.Match
	notifications []models.Notification
	settings      models.Settings
	tier          types.SubscriptionTier
	nextID        int
}

// NewServer starts a fake API with one registered user
func NewServer() *Server {
	s := &Server{
		AccessToken: "test-access-token",
		router:      mux.NewRouter(),
		logger:      logging.Nop(),
		faults:      make(map[string]*Fault),
		scans:       make(map[string]*scan),
		plan: ScanPlan{
			UploadStatus: types.ScanStatusProcessing,
			Statuses:     []types.ScanStatus{types.ScanStatusCompleted},
		},
		settings: models.Settings{
			Username:           "collector",
			Email:              UserEmail,
			MarketplaceEnabled: true,
			NotificationInApp:  true,
		},
		tier: types.TierFree,
	}

	s.setupRoutes()
	s.http = httptest.NewServer(s.router)
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.countingMiddleware)

	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)

	authed.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")

	authed.HandleFunc("/inventory", s.handleListInventory).Methods("GET")
	authed.HandleFunc("/inventory/{id}", s.handleDeleteInventory).Methods("DELETE")

	authed.HandleFunc("/scans/upload", s.handleUploadScan).Methods("POST")
	authed.HandleFunc("/scans/{id}", s.handleGetScan).Methods("GET")
	authed.HandleFunc("/scans/{id}/save", s.handleSaveScan).Methods("POST")

	authed.HandleFunc("/marketplace/wants", s.handleListWants).Methods("GET")
	authed.HandleFunc("/marketplace/wants", s.handleCreateWant).Methods("POST")
	authed.HandleFunc("/marketplace/wants/{id}", s.handleDeleteWant).Methods("DELETE")
	authed.HandleFunc("/marketplace/matches", s.handleListMatches).Methods("GET")

	authed.HandleFunc("/notifications", s.handleListNotifications).Methods("GET")
	authed.HandleFunc("/notifications/unread-count", s.handleUnreadCount).Methods("GET")
	authed.HandleFunc("/notifications/{id}/read", s.handleMarkRead).Methods("POST")

	authed.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	authed.HandleFunc("/settings", s.handleUpdateSettings).Methods("PATCH")

	authed.HandleFunc("/subscription", s.handleGetSubscription).Methods("GET")
	authed.HandleFunc("/subscription/tiers", s.handleListTiers).Methods("GET")
	authed.HandleFunc("/subscription/upgrade", s.handleUpgrade).Methods("POST")
}

// URL returns the base URL clients should use
func (s *Server) URL() string {
	return s.http.URL
}

// Close shuts the server down
func (s *Server) Close() {
	s.http.Close()
}

// SetLogger replaces the request logger
func (s *Server) SetLogger(l *logging.Logger) {
	s.logger = l
}

// Session returns a session holding the token the server accepts
func (s *Server) Session() *models.Session {
	return &models.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: "test-refresh-token",
		User:         models.User{ID: "user-1", Email: UserEmail, Username: "collector"},
	}
}

// Fail injects a fault for route, e.g. "GET /api/v1/scans/{id}"
func (s *Server) Fail(route string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fault := f
	s.faults[route] = &fault
}

// takeFault must be called with mu held
func (s *Server) takeFault(route string) (Fault, bool) {
	f, ok := s.faults[route]
	if !ok {
		return Fault{}, false
	}
	out := *f
	if f.Times > 0 {
		f.Times--
		if f.Times == 0 {
			delete(s.faults, route)
		}
	}
	return out, true
}

// Requests returns a copy of every recorded request
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit route
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

// Total returns the number of recorded requests
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request to route
func (s *Server) Last(route string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Route == route {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

// SetScanPlan scripts scans uploaded from now on. Empty Statuses complete on
// the first poll.
func (s *Server) SetScanPlan(p ScanPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.UploadStatus == "" {
		p.UploadStatus = types.ScanStatusProcessing
	}
	if len(p.Statuses) == 0 {
		p.Statuses = []types.ScanStatus{types.ScanStatusCompleted}
	}
	s.plan = p
}

// Uploads returns what the client uploaded
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// SavedCardIDs returns the card_ids of every save request
func (s *Server) SavedCardIDs() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.savedCardIDs...)
}

// SetDashboard sets the dashboard stats; nil makes the route return no data
func (s *Server) SetDashboard(stats *models.DashboardStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = stats
}

// AddInventory appends entries to the inventory
func (s *Server) AddInventory(entries ...models.InventoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory = append(s.inventory, entries...)
}

// Inventory returns the current inventory
func (s *Server) Inventory() []models.InventoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryEntry(nil), s.inventory...)
}

// AddWant appends a want
func (s *Server) AddWant(w models.Want) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wants = append(s.wants, w)
}

// Wants returns the current wants
func (s *Server) Wants() []models.Want {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Want(nil), s.wants...)
}

// AddMatch appends a match
func (s *Server) AddMatch(m models.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, m)
}

// AddNotification appends a notification
func (s *Server) AddNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

// Notifications returns the current notifications
func (s *Server) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notifications...)
}

// Settings returns the stored settings
func (s *Server) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Tier returns the current subscription tier
func (s *Server) Tier() types.SubscriptionTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// newID must be called with mu held
func (s *Server) newID(prefix string) string {
	s.nextID++
	return prefix + "-" + itoa(s.nextID)
}
