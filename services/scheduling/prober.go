package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookingbridge/models"

	"go.uber.org/zap"
)

// ErrAuthenticationFailed means the scheduling API rejected our credentials on the probe call.
var ErrAuthenticationFailed = errors.New("scheduling api authentication failed")

// Registrar registers a confirmed booking as a job.
type Registrar interface {
	Register(ctx context.Context, booking models.ConfirmedBooking) (*models.JobRegistration, error)
}

// Prober tries each configured job shape in order until one is accepted.
type Prober struct {
	client   *Client
	attempts []JobAttempt
	target   Target
	logger   *zap.Logger
	now      func() time.Time
}

func NewProber(client *Client, attempts []JobAttempt, target Target, logger *zap.Logger) *Prober {
	return &Prober{
		client:   client,
		attempts: attempts,
		target:   target,
		logger:   logger,
		now:      time.Now,
	}
}

// Register probes authentication, then walks the attempt list. The first accepted
// attempt wins and later ones are never sent. When every attempt fails the returned
// registration has Registered=false and one outcome per attempt; the error is nil.
// A non-nil error is only returned for ErrAuthenticationFailed or a cancelled ctx.
func (p *Prober) Register(ctx context.Context, booking models.ConfirmedBooking) (*models.JobRegistration, error) {
	reg := &models.JobRegistration{Attempts: []models.AttemptOutcome{}}

	if err := p.checkAuth(ctx); err != nil {
		return reg, err
	}

	for _, attempt := range p.attempts {
		if err := ctx.Err(); err != nil {
			return reg, fmt.Errorf("job registration interrupted: %w", err)
		}

		outcome, resp := p.try(ctx, attempt, booking)
		if resp == nil {
			reg.Attempts = append(reg.Attempts, outcome)
			continue
		}

		// Any parseable JSON is a success, object or not. The job exists upstream now.
		var data any
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			outcome.Error = "invalid JSON body: " + err.Error()
			reg.Attempts = append(reg.Attempts, outcome)
			continue
		}

		reg.Attempts = append(reg.Attempts, outcome)
		reg.Registered = true
		reg.Method = attempt.Description
		reg.Endpoint = outcome.URL
		reg.Status = resp.Status
		reg.Data = json.RawMessage(resp.Body)
		if obj, ok := data.(map[string]any); ok {
			reg.JobDetails = extractJob(obj)
		} else {
			reg.JobDetails = &models.JobDetails{ID: "unknown"}
		}
		reg.JobID = reg.JobDetails.ID

		p.logger.Info("job registered",
			zap.String("attempt", attempt.Name),
			zap.String("job_id", reg.JobID),
			zap.String("client", booking.ClientName),
			zap.Int("attempts_made", len(reg.Attempts)),
		)
		return reg, nil
	}

	p.logger.Warn("all job registration attempts failed",
		zap.Int("attempts_made", len(reg.Attempts)),
		zap.String("client", booking.ClientName),
	)
	return reg, nil
}

// checkAuth makes one read-only call. Only an explicit 401/403 aborts registration;
// other probe failures are logged and the attempts still run.
func (p *Prober) checkAuth(ctx context.Context) error {
	resp, err := p.client.Do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("auth probe: %w", ctx.Err())
		}
		p.logger.Warn("scheduling auth probe failed, continuing", zap.Error(err))
		return nil
	}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		p.logger.Error("scheduling api rejected credentials",
			zap.Int("status", resp.Status),
			zap.String("body", resp.Preview(200)),
		)
		return fmt.Errorf("%w: status %d", ErrAuthenticationFailed, resp.Status)
	}
	return nil
}

// try sends one attempt. resp is non-nil only when the attempt's success predicate held.
func (p *Prober) try(ctx context.Context, attempt JobAttempt, booking models.ConfirmedBooking) (models.AttemptOutcome, *Response) {
	outcome := models.AttemptOutcome{
		Endpoint: attempt.Description,
		URL:      p.client.URL(attempt.Path),
		Method:   attempt.Method,
	}

	start := time.Now()
	resp, err := p.client.Do(ctx, attempt.Method, attempt.Path, attempt.Build(booking, p.target, p.now()))
	outcome.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		outcome.Error = err.Error()
		p.logger.Warn("job attempt network error", zap.String("attempt", attempt.Name), zap.Error(err))
		return outcome, nil
	}

	outcome.Status = resp.Status
	outcome.ContentType = resp.ContentType
	outcome.IsJSON = resp.IsJSON()
	outcome.ResponsePreview = resp.Preview(previewLen)

	succeeded := attempt.Succeeded
	if succeeded == nil {
		succeeded = JSONSuccess
	}
	if !succeeded(resp.Status, resp.ContentType) {
		p.logger.Info("job attempt rejected",
			zap.String("attempt", attempt.Name),
			zap.Int("status", resp.Status),
			zap.String("content_type", resp.ContentType),
		)
		return outcome, nil
	}
	return outcome, resp
}

// extractJob reads the created job from the first shape that matches:
// data.jobs[0], then data, then the top level object.
func extractJob(body map[string]any) *models.JobDetails {
	details := &models.JobDetails{ID: "unknown"}

	data, _ := body["data"].(map[string]any)
	var job map[string]any
	if jobs, ok := data["jobs"].([]any); ok && len(jobs) > 0 {
		job, _ = jobs[0].(map[string]any)
	}

	switch {
	case job != nil && idString(job["jobId"]) != "":
		details.ID = idString(job["jobId"])
	case data != nil && idString(data["id"]) != "":
		details.ID = idString(data["id"])
	case idString(body["id"]) != "":
		details.ID = idString(body["id"])
	}

	if job == nil {
		return details
	}
	details.Title, _ = job["title"].(string)
	details.Code, _ = job["code"].(string)
	details.Description, _ = job["description"].(string)
	details.Color, _ = job["color"].(string)
	details.InstanceIDs = idList(job["instanceIds"])
	if assign, ok := job["assign"].(map[string]any); ok {
		details.AssignedGroups = idList(assign["groupIds"])
	}
	if gps, ok := job["gps"].(map[string]any); ok {
		details.Address, _ = gps["address"].(string)
	}
	return details
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}

func idList(v any) []int64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if f, ok := item.(float64); ok {
			out = append(out, int64(f))
		}
	}
	return out
}
