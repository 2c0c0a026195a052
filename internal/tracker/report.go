package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/storage"
)

// CheckReportAvailable fails with ErrReportCooldown while the previous
// report's cool-down is running.
func (t *Tracker) CheckReportAvailable() error {
	user := t.session.Snapshot()
	if user.CanRequestReport(t.session.Now()) {
		return nil
	}
	return fmt.Errorf("%w: next report on %s", ErrReportCooldown, user.NewReportDate.Format("2 Jan 2006 15:04"))
}

// SaveReport stores a report under its date and starts the cool-down
// before the next one. It fails with ErrReportCooldown when the stored
// document is still cooling down, even if the session has not seen it yet.
func (t *Tracker) SaveReport(ctx context.Context, r models.Report) error {
	now := t.session.Now()
	next := now.AddDate(0, 0, constants.ReportCooldownDays)
	err := t.update(ctx, func(doc map[string]any) error {
		if until, ok := cooldownUntil(doc); ok && until.After(now) {
			return fmt.Errorf("%w: next report on %s", ErrReportCooldown, until.Format("2 Jan 2006 15:04"))
		}
		if err := storage.SetPath(doc, codec.EncodeReport(r), codec.FieldReports, codec.ReportKey(r)); err != nil {
			return err
		}
		doc[codec.FieldNewReportDate] = models.FormatTimestamp(next)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	logger.Info("Report saved", "date", codec.ReportKey(r), "title", r.Title)
	return nil
}

func cooldownUntil(doc map[string]any) (time.Time, bool) {
	stamp, _ := doc[codec.FieldNewReportDate].(string)
	if stamp == "" {
		return time.Time{}, false
	}
	until, err := models.ParseTimestamp(stamp)
	if err != nil {
		return time.Time{}, false
	}
	return until, true
}

// DeleteReport removes the report of date.
func (t *Tracker) DeleteReport(ctx context.Context, date time.Time) error {
	key := models.FormatTimestamp(date)
	err := t.update(ctx, func(doc map[string]any) error {
		if !storage.RemovePath(doc, codec.FieldReports, key) {
			return ErrReportNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	return nil
}

// CheckTokenBudget fails with ErrTokenLimit once the account has spent its
// assistant tokens.
func (t *Tracker) CheckTokenBudget() error {
	if t.session.Snapshot().Usage.Tokens > constants.TokenUsageLimit {
		return ErrTokenLimit
	}
	return nil
}

// AddTokens records assistant tokens spent by the user.
func (t *Tracker) AddTokens(ctx context.Context, tokens int) error {
	if tokens <= 0 {
		return nil
	}
	return t.update(ctx, func(doc map[string]any) error {
		usage := codec.DecodeUsage(doc[codec.FieldUsage])
		usage.Tokens += tokens
		doc[codec.FieldUsage] = codec.EncodeUsage(usage)
		return nil
	})
}

// ReportWriter writes a report on a user's recent habits and returns the
// tokens it spent.
type ReportWriter interface {
	GenerateReport(ctx context.Context, user *models.UserData, now time.Time) (models.Report, int, error)
}

// RequestReport asks w for a new report once the cool-down is over and the
// token budget allows it. Spent tokens are recorded even when the report
// cannot be used.
func (t *Tracker) RequestReport(ctx context.Context, w ReportWriter) (models.Report, error) {
	if err := t.session.Refresh(ctx); err != nil {
		return models.Report{}, err
	}
	if err := t.CheckReportAvailable(); err != nil {
		return models.Report{}, err
	}
	if err := t.CheckTokenBudget(); err != nil {
		return models.Report{}, err
	}

	report, tokens, genErr := w.GenerateReport(ctx, t.session.Snapshot(), t.session.Now())
	if err := t.AddTokens(ctx, tokens); err != nil {
		logger.Warn("Failed to record token usage", "tokens", tokens, "error", err)
	}
	if genErr != nil {
		return models.Report{}, fmt.Errorf("generate report: %w", genErr)
	}
	if err := t.SaveReport(ctx, report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}
