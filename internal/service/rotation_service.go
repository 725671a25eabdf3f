package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"vvf-roster/backend/config"
	"vvf-roster/backend/internal/dto"
	"vvf-roster/backend/internal/rotation"
)

// ErrInvalidDate business-level date parse failure.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// RotationService exposes the duty rotation to the API. The configured
// seed anchors every computation; requests may override it for what-if
// queries without touching configuration.
type RotationService interface {
	DayInfo(ctx context.Context, req *dto.RotationDayRequest) (*dto.RotationDayResponse, error)
	Projection(ctx context.Context, req *dto.RotationProjectionRequest) (*dto.RotationProjectionResponse, error)
}

type rotationService struct {
	seedDate time.Time
	seedCode string
	logger   *zap.Logger
}

// NewRotationService creates a RotationService anchored on the
// configured seed.
func NewRotationService(cfg *config.Config, logger *zap.Logger) (RotationService, error) {
	seedDate, err := cfg.Rotation.ParsedSeedDate()
	if err != nil {
		return nil, err
	}
	return &rotationService{
		seedDate: seedDate,
		seedCode: cfg.Rotation.SeedCode,
		logger:   logger,
	}, nil
}

// resolveSeed applies per-request seed overrides over the configured
// anchor.
func (s *rotationService) resolveSeed(seedDateStr, seedCode string) (time.Time, string, error) {
	seedDate := s.seedDate
	code := s.seedCode
	if seedDateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", seedDateStr, time.Local)
		if err != nil {
			return time.Time{}, "", ErrInvalidDate
		}
		seedDate = parsed
	}
	if seedCode != "" {
		code = seedCode
	}
	return seedDate, code, nil
}

func buildDayResponse(date, seedDate time.Time, seedCode string) (*dto.RotationDayResponse, error) {
	dayCode, err := rotation.MainDayCode(date, seedDate, seedCode)
	if err != nil {
		return nil, err
	}
	nightCode, err := rotation.MainNightCode(date, seedDate, seedCode)
	if err != nil {
		return nil, err
	}
	pools, err := rotation.EligibilityPools(dayCode)
	if err != nil {
		return nil, err
	}
	chain, err := rotation.PriorityChain(dayCode)
	if err != nil {
		return nil, err
	}
	return &dto.RotationDayResponse{
		Date:          date.Format("2006-01-02"),
		DayCode:       dayCode,
		NightCode:     nightCode,
		StandardPool:  pools.Standard,
		ExtraPool:     pools.Extra,
		PriorityChain: chain,
	}, nil
}

func (s *rotationService) DayInfo(_ context.Context, req *dto.RotationDayRequest) (*dto.RotationDayResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	seedDate, seedCode, err := s.resolveSeed(req.SeedDate, req.SeedCode)
	if err != nil {
		return nil, err
	}
	return buildDayResponse(date, seedDate, seedCode)
}

func (s *rotationService) Projection(_ context.Context, req *dto.RotationProjectionRequest) (*dto.RotationProjectionResponse, error) {
	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	seedDate, seedCode, err := s.resolveSeed(req.SeedDate, req.SeedCode)
	if err != nil {
		return nil, err
	}

	days := req.Days
	if days <= 0 {
		days = 30
	}

	items := make([]dto.RotationDayResponse, 0, days)
	for i := 0; i < days; i++ {
		day, err := buildDayResponse(from.AddDate(0, 0, i), seedDate, seedCode)
		if err != nil {
			return nil, err
		}
		items = append(items, *day)
	}

	return &dto.RotationProjectionResponse{
		From:     from.Format("2006-01-02"),
		Days:     days,
		SeedDate: seedDate.Format("2006-01-02"),
		SeedCode: seedCode,
		Items:    items,
	}, nil
}
