// Package imagegen runs the generation request workflow: validate input, build
// the request, call the remote editor with bounded backoff, return the image.
package imagegen

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"nanobanana/internal/domain"
	"nanobanana/internal/infra"
	"nanobanana/internal/providers/image"
)

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	Policy    RetryPolicy
	Sleeper   Sleeper
	Logger    *infra.Logger
	OnAttempt func(Attempt)
}

// Generator is safe for concurrent use; exclusivity of in-flight generations
// is enforced by the caller.
type Generator struct {
	editor    image.Editor
	policy    RetryPolicy
	sleeper   Sleeper
	logger    infra.Logger
	onAttempt func(Attempt)
}

func NewGenerator(editor image.Editor, opts Options) *Generator {
	policy := opts.Policy
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}
	sleeper := opts.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper
	}
	return &Generator{
		editor:    editor,
		policy:    policy.normalized(),
		sleeper:   sleeper,
		logger:    infra.LoggerOrNop(opts.Logger),
		onAttempt: opts.OnAttempt,
	}
}

// Validate applies the local preconditions in order. It never touches the
// network.
func Validate(in Input) error {
	if in.Image == nil || in.Image.IsZero() {
		return domain.ErrMissingImage
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Prompt)) < domain.MinPromptLength {
		return domain.ErrPromptTooShort
	}
	return nil
}

// Generate validates in and calls the editor until one attempt yields an
// image or the policy is exhausted. Only the last attempt error is reported.
func (g *Generator) Generate(ctx context.Context, in Input) (domain.UploadedImage, error) {
	if err := Validate(in); err != nil {
		return domain.UploadedImage{}, err
	}

	style := in.Style
	if style == "" {
		style = domain.DefaultStyle
	}
	resolution := in.Resolution
	if resolution == "" {
		resolution = domain.DefaultResolution
	}
	req := image.EditRequest{
		Prompt:      in.Prompt,
		Instruction: BuildInstruction(style, in.Prompt, in.Consistency),
		Style:       style,
		Resolution:  resolution,
		Source:      *in.Image,
	}

	delays := g.policy.Delays()
	var lastErr error
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		result, err := g.editor.Edit(ctx, req)
		if err == nil && !result.IsZero() {
			g.logger.Info().
				Int("attempt", attempt).
				Int("bytes", len(result.Data)).
				Msg("imagegen: generation succeeded")
			g.notify(Attempt{Number: attempt, MaxAttempts: g.policy.MaxAttempts})
			if result.MIMEType == "" {
				result.MIMEType = domain.MIMETypePNG
			}
			return result, nil
		}
		if err == nil {
			err = domain.ErrNoImageInResponse
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.UploadedImage{}, fmt.Errorf("imagegen: aborted on attempt %d: %w", attempt, ctxErr)
		}

		if attempt == g.policy.MaxAttempts {
			g.logger.Warn().Err(err).Int("attempt", attempt).Msg("imagegen: final attempt failed")
			g.notify(Attempt{Number: attempt, MaxAttempts: g.policy.MaxAttempts, Err: err})
			break
		}

		delay := delays[attempt-1]
		g.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("imagegen: attempt failed, backing off")
		g.notify(Attempt{Number: attempt, MaxAttempts: g.policy.MaxAttempts, Err: err, NextDelay: delay})

		if err := g.sleeper.Sleep(ctx, delay); err != nil {
			return domain.UploadedImage{}, fmt.Errorf("imagegen: aborted while backing off: %w", err)
		}
	}

	return domain.UploadedImage{}, &domain.GenerationFailedError{Attempts: g.policy.MaxAttempts, Last: lastErr}
}

func (g *Generator) notify(a Attempt) {
	if g.onAttempt != nil {
		g.onAttempt(a)
	}
}
