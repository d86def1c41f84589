// Package scan drives one image through upload, recognition polling,
// review and save.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cardvault-cli/internal/adapter"
	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/logging"
	"github.com/cardvault-cli/internal/models"
	"github.com/cardvault-cli/internal/poll"
	"github.com/cardvault-cli/internal/types"
)

// State is the controller's position in the scan workflow
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateResults    State = "results"
	StateSaved      State = "saved"
	StateError      State = "error"
)

const (
	// DefaultPollInterval is the delay between status polls
	DefaultPollInterval = 500 * time.Millisecond
	// DefaultMaxAttempts bounds a scan to about 30 seconds of polling
	DefaultMaxAttempts = 60
	// DefaultMaxFileSize is the largest image accepted for upload (10 MB)
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
)

const (
	msgNotImage       = "Please select an image file"
	msgTooLarge       = "Image must be less than 10MB"
	msgScanFailed     = "Scan failed"
	msgScanTimeout    = "Scan timeout - please try again"
	msgNoneConfirmed  = "Please confirm at least one card"
	msgPollCancelled  = "Scan polling cancelled"
	msgAutoConfirmed  = "cards were saved automatically when the scan completed"
	msgNoFileSelected = "no image selected"
)

// ErrScanFailed is recorded when the server reports the scan as failed
var ErrScanFailed = errors.New(msgScanFailed)

// API is the subset of the CardVault client the controller needs
type API interface {
	UploadScan(ctx context.Context, u adapter.ScanUpload) (*models.ScanReceipt, error)
	GetScan(ctx context.Context, scanID string) (*models.ScanRecord, error)
	SaveScan(ctx context.Context, scanID string, cardIDs []string) (*models.SaveResult, error)
}

// Config tunes the workflow
type Config struct {
	// AutoConfirm marks every detection confirmed as Near Mint. The server
	// persists auto-confirmed cards itself, so Save is disabled.
	AutoConfirm  bool
	PollInterval time.Duration
	MaxAttempts  int
	MaxFileSize  int64
	Logger       *logging.Logger
}

// CardUpdate holds user edits to a detection; nil fields are left unchanged
type CardUpdate struct {
	Name      *string
	SetName   *string
	SetCode   *string
	Condition *types.Condition
	Quantity  *int
}

// Snapshot is a point-in-time copy of the controller state
type Snapshot struct {
	State    State
	ScanType types.ScanType
	File     *File
	Preview  *Preview
	Session  *models.ScanSession
	Saved    *models.SaveResult
	Err      error
	Attempts int
}

// Controller owns the scan workflow for one page
type Controller struct {
	api    API
	cfg    Config
	logger *logging.Logger

	mu         sync.Mutex
	state      State
	scanType   types.ScanType
	file       *File
	preview    *Preview
	session    *models.ScanSession
	saved      *models.SaveResult
	err        error
	attempts   int
	saving     bool
	handle     *poll.Handle
	generation uint64
}

// NewController creates an idle controller
func NewController(api API, cfg Config) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Controller{
		api:      api,
		cfg:      cfg,
		logger:   logger.WithField("component", "scan"),
		state:    StateIdle,
		scanType: types.ScanTypeSingle,
	}
}

// SelectFile validates f and makes it the upload candidate.
// A rejected file leaves the previous selection in place.
func (c *Controller) SelectFile(f *File) error {
	if f == nil {
		return apperrors.NewValidationError(msgNotImage)
	}

	var verr error
	switch {
	case !f.IsImage():
		verr = apperrors.NewValidationError(msgNotImage)
	case f.Size > c.cfg.MaxFileSize:
		verr = apperrors.NewValidationError(msgTooLarge)
	}

	var preview *Preview
	if verr == nil {
		p, err := LoadPreview(f)
		if err != nil {
			c.logger.WithError(err).WithField("file", f.Name).Debug("Preview unavailable")
		} else {
			preview = p
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return apperrors.NewValidationError(fmt.Sprintf("cannot select a file while %s", c.state))
	}
	if verr != nil {
		c.err = verr
		return verr
	}

	c.file = f
	c.preview = preview
	c.err = nil
	return nil
}

// SetScanType chooses single or multi-card recognition for the next upload
func (c *Controller) SetScanType(t types.ScanType) error {
	if t != types.ScanTypeSingle && t != types.ScanTypeMulti {
		return apperrors.NewInvalidParameterError("scan_type", "must be single or multi")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanType = t
	return nil
}

// Submit uploads the selected file and starts polling for results.
// It returns once the upload finished; polling continues in the background.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return apperrors.NewValidationError(fmt.Sprintf("cannot submit while %s", state))
	}
	if c.file == nil {
		c.mu.Unlock()
		return apperrors.NewValidationError(msgNoFileSelected)
	}
	c.state = StateUploading
	c.err = nil
	c.generation++
	gen := c.generation
	file := c.file
	scanType := c.scanType
	c.mu.Unlock()

	receipt, err := c.upload(ctx, file, scanType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return apperrors.NewValidationError("scan was reset during upload")
	}
	if err != nil {
		c.logger.WithError(err).WithField("file", file.Name).Warn("Scan upload failed")
		c.state = StateIdle
		c.err = err
		return err
	}

	status := receipt.Status
	if status == "" {
		status = types.ScanStatusProcessing
	}
	c.session = &models.ScanSession{
		ScanID:        receipt.ScanID,
		Status:        status,
		ScanType:      scanType,
		ImageURL:      receipt.ImageURL,
		DetectedCards: []models.DetectedCard{},
	}
	c.saved = nil
	c.attempts = 0
	c.state = StateProcessing

	c.logger.WithFields(map[string]interface{}{
		"scan_id":   receipt.ScanID,
		"scan_type": scanType,
	}).Info("Scan uploaded, polling for results")

	c.startPoll(ctx, gen, receipt.ScanID)
	return nil
}

func (c *Controller) upload(ctx context.Context, file *File, scanType types.ScanType) (*models.ScanReceipt, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("reading %s: %v", file.Name, err))
	}
	defer rc.Close()

	return c.api.UploadScan(ctx, adapter.ScanUpload{
		Filename:    file.Name,
		ContentType: file.ContentType,
		Content:     rc,
		ScanType:    scanType,
	})
}

// startPoll must be called with c.mu held
func (c *Controller) startPoll(ctx context.Context, gen uint64, scanID string) {
	if c.handle != nil {
		// a stale handle fails the generation check, so it cannot touch state
		go c.handle.Cancel()
	}

	// polling outlives the upload request but not the caller's cancellation
	c.handle = poll.Start(ctx, poll.Options{
		Interval:    c.cfg.PollInterval,
		MaxAttempts: c.cfg.MaxAttempts,
		OnFinish: func(res poll.Result) {
			c.finishPoll(gen, res)
		},
	}, func(ctx context.Context, attempt int) (bool, error) {
		return c.pollOnce(ctx, gen, scanID, attempt)
	})
}

func (c *Controller) pollOnce(ctx context.Context, gen uint64, scanID string, attempt int) (bool, error) {
	record, err := c.api.GetScan(ctx, scanID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return true, nil
	}
	c.attempts = attempt
	if err != nil {
		return false, err
	}

	switch record.Status {
	case types.ScanStatusCompleted:
		c.session.Status = types.ScanStatusCompleted
		if record.ImageURL != "" {
			c.session.ImageURL = record.ImageURL
		}
		c.session.DetectedCards = MapDetections(record.DetectedCards, c.session.ImageURL, c.cfg.AutoConfirm)
		c.state = StateResults
		c.logger.WithFields(map[string]interface{}{
			"scan_id":  scanID,
			"cards":    len(c.session.DetectedCards),
			"attempts": attempt,
		}).Info("Scan completed")
		return true, nil
	case types.ScanStatusFailed:
		c.session.Status = types.ScanStatusFailed
		return true, ErrScanFailed
	default:
		if record.Status != "" {
			c.session.Status = record.Status
		}
		return false, nil
	}
}

func (c *Controller) finishPoll(gen uint64, res poll.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.attempts = res.Attempts

	switch res.Outcome {
	case poll.OutcomeCompleted:
		return
	case poll.OutcomeFailed:
		c.err = res.Err
	case poll.OutcomeExhausted:
		c.err = apperrors.NewTimeoutError(msgScanTimeout, res.Attempts)
	case poll.OutcomeCancelled:
		if c.state != StateProcessing {
			return
		}
		c.err = apperrors.NewValidationError(msgPollCancelled)
	}

	c.state = StateError
	c.logger.WithError(c.err).WithField("attempts", res.Attempts).Warn("Scan polling stopped")
}

// UpdateCard edits a detection and marks it confirmed
func (c *Controller) UpdateCard(id string, u CardUpdate) error {
	if u.Quantity != nil && *u.Quantity <= 0 {
		return apperrors.NewInvalidParameterError("quantity", "must be greater than zero")
	}
	if u.Condition != nil && !u.Condition.Valid() {
		return apperrors.NewInvalidParameterError("condition", fmt.Sprintf("unknown condition %q", *u.Condition))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateResults {
		return apperrors.NewValidationError(fmt.Sprintf("cannot edit cards while %s", c.state))
	}

	card := c.findCard(id)
	if card == nil {
		return apperrors.NewInvalidParameterError("card_id", fmt.Sprintf("no detected card %q", id))
	}

	if u.Name != nil {
		card.PredictedName = *u.Name
	}
	if u.SetName != nil || u.SetCode != nil {
		if card.PredictedSet == nil {
			card.PredictedSet = &models.CardSet{}
		}
		if u.SetName != nil {
			card.PredictedSet.Name = *u.SetName
		}
		if u.SetCode != nil {
			card.PredictedSet.Code = *u.SetCode
		}
	}
	if u.Condition != nil {
		card.Condition = *u.Condition
	}
	if u.Quantity != nil {
		card.Quantity = *u.Quantity
	}
	card.Confirmed = true
	return nil
}

// ConfirmAll confirms every detection, defaulting an empty condition to Near Mint
func (c *Controller) ConfirmAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateResults {
		return apperrors.NewValidationError(fmt.Sprintf("cannot confirm cards while %s", c.state))
	}
	for i := range c.session.DetectedCards {
		card := &c.session.DetectedCards[i]
		if card.Condition == "" {
			card.Condition = types.ConditionNearMint
		}
		card.Confirmed = true
	}
	return nil
}

func (c *Controller) findCard(id string) *models.DetectedCard {
	for i := range c.session.DetectedCards {
		if c.session.DetectedCards[i].ID == id {
			return &c.session.DetectedCards[i]
		}
	}
	return nil
}

// Save persists the confirmed detections. Only available in manual review.
func (c *Controller) Save(ctx context.Context) (*models.SaveResult, error) {
	c.mu.Lock()
	if c.cfg.AutoConfirm {
		c.mu.Unlock()
		return nil, apperrors.NewValidationError(msgAutoConfirmed)
	}
	if c.state != StateResults {
		state := c.state
		c.mu.Unlock()
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot save while %s", state))
	}
	if c.saving {
		c.mu.Unlock()
		return nil, apperrors.NewValidationError("save already in progress")
	}
	ids := c.session.ConfirmedIDs()
	if len(ids) == 0 {
		err := apperrors.NewValidationError(msgNoneConfirmed)
		c.err = err
		c.mu.Unlock()
		return nil, err
	}
	c.saving = true
	c.err = nil
	gen := c.generation
	scanID := c.session.ScanID
	c.mu.Unlock()

	result, err := c.api.SaveScan(ctx, scanID, ids)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false

	if gen != c.generation {
		return nil, apperrors.NewValidationError("scan was reset during save")
	}
	if err != nil {
		c.logger.WithError(err).WithField("scan_id", scanID).Warn("Saving scan failed")
		c.err = err
		return nil, err
	}

	c.saved = result
	c.session.Status = types.ScanStatusSaved
	c.state = StateSaved
	c.logger.WithFields(map[string]interface{}{
		"scan_id": scanID,
		"saved":   result.SavedCount,
	}).Info("Scan saved to inventory")
	return result, nil
}


// Reset cancels any live poll and returns to idle with nothing selected
func (c *Controller) Reset() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.generation++
	c.state = StateIdle
	c.file = nil
	c.preview = nil
	c.session = nil
	c.saved = nil
	c.err = nil
	c.attempts = 0
	c.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Close cancels the live poll, if any
func (c *Controller) Close() {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// Wait blocks until the live poll stops or ctx ends
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()

	if h != nil {
		if _, err := h.Wait(ctx); err != nil {
			return c.Snapshot(), err
		}
	}
	return c.Snapshot(), nil
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:    c.state,
		ScanType: c.scanType,
		File:     c.file,
		Session:  c.session.Clone(),
		Err:      c.err,
		Attempts: c.attempts,
	}
	if c.preview != nil {
		p := *c.preview
		snap.Preview = &p
	}
	if c.saved != nil {
		s := *c.saved
		snap.Saved = &s
	}
	return snap
}

// SaveMessage is the confirmation shown after a successful save. It counts
// the confirmed cards that were sent, not the server's saved_count.
func (s Snapshot) SaveMessage() string {
	n := 0
	if s.Session != nil {
		n = len(s.Session.ConfirmedIDs())
	}
	return fmt.Sprintf("Successfully saved %d card(s) to inventory!", n)
}

// Summary is the headline for a finished scan
func (s Snapshot) Summary() string {
	if s.Session == nil || len(s.Session.DetectedCards) == 0 {
		return "No Cards Detected"
	}
	return fmt.Sprintf("Successfully Added %d Card(s)", len(s.Session.DetectedCards))
}
