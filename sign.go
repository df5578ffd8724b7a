package macpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// SignStep codesigns one artifact (the application bundle or the disk image)
// with the identity from the descriptor's signing section.
type SignStep struct {
	target   string
	identity string
	run      Runner
}

func NewSignStep(target, identity string, run Runner) *SignStep {
	return &SignStep{target: target, identity: identity, run: run}
}

func (s *SignStep) Name() string { return "codesign " + filepath.Base(s.target) }

func (s *SignStep) Run(ctx context.Context) error {
	if _, err := os.Stat(s.target); err != nil {
		return fmt.Errorf("nothing to sign at %s: %w", s.target, err)
	}
	log.Info().Str("target", s.target).Str("identity", s.identity).Msg("codesigning")
	return s.run.Run(ctx, "codesign",
		"--force", "--deep", "--timestamp", "--options", "runtime",
		"--sign", s.identity, s.target)
}

// NotarizeStep submits the disk image to the notary service and staples the
// resulting ticket. Credentials come from the named keychain profile, created
// once with 'xcrun notarytool store-credentials'.
type NotarizeStep struct {
	target  string
	profile string
	run     Runner
}

func NewNotarizeStep(target, profile string, run Runner) *NotarizeStep {
	return &NotarizeStep{target: target, profile: profile, run: run}
}

func (s *NotarizeStep) Name() string { return "notarize" }

func (s *NotarizeStep) Run(ctx context.Context) error {
	log.Info().Str("target", s.target).Str("profile", s.profile).
		Msg("submitting for notarization, this may take several minutes")
	err := s.run.Run(ctx, "xcrun", "notarytool", "submit", s.target,
		"--keychain-profile", s.profile, "--wait")
	if err != nil {
		return err
	}
	return s.run.Run(ctx, "xcrun", "stapler", "staple", s.target)
}
