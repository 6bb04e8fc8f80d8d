// Package moderation handles user reports, reputation tracking and the
// escalating ban policy applied to abusive chat participants.
package moderation

import (
	"log"
	"time"

	"villago/backend/internal/config"
	"villago/backend/internal/models"
)

// Store is the slice of the data layer moderation needs. *storage.Service
// satisfies it.
type Store interface {
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateUserReputation(userID string, delta int) error
	SaveReport(report *models.Report) error
	UpdateReport(report *models.Report) error
	GetReportByID(id uint) (*models.Report, error)
	GetReportsForUser(userID string, since time.Time) ([]models.Report, error)
	SetBanFlag(userID string, ttl time.Duration) error
	ClearBanFlag(userID string) error
}

// Notifier receives moderation events for the admin channel. May be nil.
type Notifier interface {
	ReportFiled(report *models.Report)
	UserBanned(userID string, level int, until time.Time)
}

// Service handles the business logic for reports and bans.
type Service struct {
	Storage  Store
	Notifier Notifier
}

func NewService(s Store, n Notifier) *Service {
	return &Service{Storage: s, Notifier: n}
}

// ReportWeight returns the reputation penalty for a report type. Unknown
// types fall back to the "other" weight.
func ReportWeight(reportType string) int {
	if w, ok := config.ComplaintWeights[reportType]; ok {
		return w
	}
	return config.ComplaintWeights["other"]
}

// HandleReport stores a new report, applies the reputation penalty and checks
// whether the reported user crossed a ban threshold.
func (s *Service) HandleReport(report *models.Report) error {
	if err := s.Storage.SaveReport(report); err != nil {
		return err
	}

	weight := ReportWeight(report.ReportType)
	if err := s.Storage.UpdateUserReputation(report.ReportedUserID, -weight); err != nil {
		return err
	}

	if s.Notifier != nil {
		s.Notifier.ReportFiled(report)
	}

	return s.CheckForBan(report.ReportedUserID)
}

// CheckForBan bans the user when their reputation fell below the threshold or
// when they collected too many reports inside the frequency window.
func (s *Service) CheckForBan(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}

	if user.ReputationScore < config.BanThresholdReputation {
		return s.applyBan(user)
	}

	reports, err := s.Storage.GetReportsForUser(userID, time.Now().Add(-config.BanFrequencyWindow))
	if err != nil {
		return err
	}
	if len(reports) > config.BanThresholdFrequency {
		return s.applyBan(user)
	}

	return nil
}

// applyBan escalates the ban level when the previous ban was recent.
func (s *Service) applyBan(user *models.User) error {
	level := 1
	if user.LastBanDate > 0 {
		sinceLast := time.Since(time.Unix(user.LastBanDate, 0))
		if sinceLast < 7*24*time.Hour {
			level = 2
		} else if sinceLast < 30*24*time.Hour {
			level = 3
		}
	}

	duration := banDuration(level)
	until := time.Now().Add(duration)

	user.IsBlocked = true
	user.BlockEndTime = until.Unix()
	user.BlockLevel = level
	user.LastBanDate = time.Now().Unix()
	if err := s.Storage.UpdateUser(user); err != nil {
		return err
	}

	// Mirror into Redis so the broadcaster's fast path sees it immediately.
	if err := s.Storage.SetBanFlag(user.ID, duration); err != nil {
		log.Printf("WARNING: Failed to set ban flag for user %s: %v", user.ID, err)
	}

	if s.Notifier != nil {
		s.Notifier.UserBanned(user.ID, level, until)
	}
	log.Printf("User %s banned (level %d) until %s", user.ID, level, until.Format(time.RFC3339))
	return nil
}

// Unban lifts an active ban and clears the fast-path flag.
func (s *Service) Unban(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	user.BlockEndTime = 0
	if err := s.Storage.UpdateUser(user); err != nil {
		return err
	}
	return s.Storage.ClearBanFlag(userID)
}

// ResolveReport marks a report handled and rewards the reporter.
func (s *Service) ResolveReport(reportID uint) error {
	report, err := s.Storage.GetReportByID(reportID)
	if err != nil {
		return err
	}
	report.Status = "resolved"
	if err := s.Storage.UpdateReport(report); err != nil {
		return err
	}
	return s.Storage.UpdateUserReputation(report.ReporterID, 10)
}

func banDuration(level int) time.Duration {
	switch level {
	case 1:
		return config.BanLevel1Duration
	case 2:
		return config.BanLevel2Duration
	default:
		return config.BanLevel3Duration
	}
}
