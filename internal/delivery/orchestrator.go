// Package delivery hands composed invoice messages to WhatsApp and falls back
// to the clipboard when the hand-off is not possible.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/andy/billbook/internal/domain"
	"github.com/andy/billbook/internal/phone"
	"go.uber.org/zap"
)

// ErrDeliveryInProgress is returned when Deliver is called while another attempt is running
var ErrDeliveryInProgress = errors.New("a delivery is already in progress")

// Launcher opens URIs through the platform
type Launcher interface {
	CanOpen(ctx context.Context, uri string) (bool, error)
	Open(ctx context.Context, uri string) error
}

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier shows a notice to the user
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NoticeKind string

const (
	NoticeMissingDestination NoticeKind = "missing_destination"
	NoticeAppUnavailable     NoticeKind = "app_unavailable"
	NoticeHandoffError       NoticeKind = "handoff_error"
)

// Notice is a user-facing message. Body never carries a raw error string.
type Notice struct {
	Kind  NoticeKind
	Title string
	Body  string
}

// Result describes a finished delivery attempt
type Result struct {
	Outcome domain.DeliveryOutcome
	Number  string
	URI     string
	// Cause is the recovered error (ErrHandoffUnsupported or ErrHandoffFailed) on fallback
	Cause error
	// ClipboardErr is set when the fallback copy itself failed
	ClipboardErr error
}

// Options configures an Orchestrator
type Options struct {
	CountryCode string
	LinkStyle   LinkStyle
	Logger      *zap.Logger
}

// Orchestrator runs one delivery attempt at a time
type Orchestrator struct {
	launcher   Launcher
	clipboard  Clipboard
	notifier   Notifier
	normalizer phone.Normalizer
	linkStyle  LinkStyle
	logger     *zap.Logger
	inFlight   atomic.Bool
}

// NewOrchestrator creates an Orchestrator from its platform capabilities
func NewOrchestrator(launcher Launcher, clipboard Clipboard, notifier Notifier, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	style := opts.LinkStyle
	if style == "" {
		style = LinkStyleApp
	}
	return &Orchestrator{
		launcher:   launcher,
		clipboard:  clipboard,
		notifier:   notifier,
		normalizer: phone.NewNormalizer(opts.CountryCode),
		linkStyle:  style,
		logger:     logger.Named("delivery"),
	}
}

// Deliver hands message to WhatsApp for rawNumber. The only error it returns is
// ErrMissingDestination (or ErrDeliveryInProgress); hand-off failures are recovered
// by copying message to the clipboard.
func (o *Orchestrator) Deliver(ctx context.Context, rawNumber, message string) (*Result, error) {
	if strings.TrimSpace(rawNumber) == "" {
		o.missingDestination(ctx)
		return nil, domain.ErrMissingDestination
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrDeliveryInProgress
	}
	defer o.inFlight.Store(false)

	number := o.normalizer.Normalize(rawNumber)
	if number == "" {
		o.missingDestination(ctx)
		return nil, domain.ErrMissingDestination
	}

	uri := BuildLink(o.linkStyle, number, message)
	log := o.logger.With(zap.String("number", number), zap.String("link_style", string(o.linkStyle)))
	log.Debug("attempting handoff")

	if err := o.handoff(ctx, uri); err != nil {
		log.Info("handoff not possible, falling back to clipboard", zap.Error(err))
		return o.fallback(ctx, number, uri, message, err), nil
	}

	log.Info("handed off to messaging app")
	return &Result{
		Outcome: domain.OutcomeHandedOff,
		Number:  number,
		URI:     uri,
	}, nil
}

// InProgress reports whether a delivery attempt is running
func (o *Orchestrator) InProgress() bool {
	return o.inFlight.Load()
}

// handoff returns nil once the URI was passed to the platform. Panics from the
// launcher are converted to ErrHandoffFailed.
func (o *Orchestrator) handoff(ctx context.Context, uri string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrHandoffFailed, r)
		}
	}()

	ok, err := o.launcher.CanOpen(ctx, uri)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrHandoffFailed, err)
	}
	if !ok {
		return domain.ErrHandoffUnsupported
	}
	if err := o.launcher.Open(ctx, uri); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrHandoffFailed, err)
	}
	return nil
}

func (o *Orchestrator) fallback(ctx context.Context, number, uri, message string, cause error) *Result {
	res := &Result{
		Outcome: domain.OutcomeClipboardFallback,
		Number:  number,
		URI:     uri,
		Cause:   cause,
	}

	notice := Notice{
		Kind:  NoticeAppUnavailable,
		Title: "WhatsApp not available",
		Body:  "WhatsApp is not installed. The invoice message was copied to your clipboard.",
	}
	if !errors.Is(cause, domain.ErrHandoffUnsupported) {
		notice = Notice{
			Kind:  NoticeHandoffError,
			Title: "Could not open WhatsApp",
			Body:  "Something went wrong opening WhatsApp. The invoice message was copied to your clipboard.",
		}
	}

	if err := o.writeClipboard(ctx, message); err != nil {
		o.logger.Warn("clipboard write failed", zap.Error(err))
		res.ClipboardErr = err
		notice.Body = "The invoice message could not be copied automatically. Copy it from below:\n\n" + message
	}

	o.notify(ctx, notice)
	return res
}

func (o *Orchestrator) writeClipboard(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrClipboard, r)
		}
	}()
	if err := o.clipboard.WriteText(ctx, text); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrClipboard, err)
	}
	return nil
}

func (o *Orchestrator) missingDestination(ctx context.Context) {
	o.logger.Info("delivery skipped: no destination number")
	o.notify(ctx, Notice{
		Kind:  NoticeMissingDestination,
		Title: "No mobile number",
		Body:  "No mobile number found for this customer.",
	})
}

func (o *Orchestrator) notify(ctx context.Context, n Notice) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, n)
}
