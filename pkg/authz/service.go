package authz

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"
)

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	flags    FlagProvider
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	cfg, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{
		enforcer: enf,
		logger:   cfg.Logger.WithField("component", "authz"),
		flags:    cfg.FlagProvider,
	}, nil
}

// Mode returns the global enforcement mode.
func (s *Service) Mode() Mode {
	return s.flags.Flags().Mode
}

// ModeFor returns the enforcement mode applied to capability.
func (s *Service) ModeFor(capability string) Mode {
	return s.flags.Flags().ModeFor(capability)
}

// Authorize returns an error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	mode := s.ModeFor(req.Object)
	if mode == ModeDisabled {
		return nil
	}
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	fields := logrus.Fields{
		"subject": req.Subject,
		"domain":  req.Domain,
		"object":  req.Object,
		"action":  req.Action,
		"mode":    mode,
	}
	if mode == ModeShadow {
		s.logger.WithContext(ctx).WithFields(fields).Warn("authz shadow deny")
		return nil
	}
	s.logger.WithContext(ctx).WithFields(fields).Warn("authz denied request")
	return forbiddenError(req)
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	res, err := s.enforcer.Enforce(req.Subject, req.Domain, req.Object, req.Action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}
