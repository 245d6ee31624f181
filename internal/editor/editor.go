// Package editor owns the session state of the photo editor and the
// operations that change it. Every change is published to subscribers as a
// full snapshot.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"

	"nanobanana/internal/domain"
	"nanobanana/internal/history"
	"nanobanana/internal/imagegen"
	"nanobanana/internal/infra"
	"nanobanana/internal/ingest"
	"nanobanana/internal/notify"
	"nanobanana/internal/providers/image"
)

const (
	MsgUploadTooLarge     = "Image size exceeds 5MB limit!"
	MsgUploadOK           = "Image uploaded successfully!"
	MsgUploadReadError    = "Error reading file."
	MsgUploadUnsupported  = "Unsupported file type. Please upload a JPEG or PNG image."
	MsgMissingImage       = "Please upload a base image first."
	MsgPromptTooShort     = "Prompt is too short. Describe your vision!"
	MsgGenerated          = "✨ Magic Generated! Check out your new photo."
	MsgGenerationFailedAt = "Image generation failed after multiple attempts. Error: "
)

// Options wires an Editor. Editor and Store are required.
type Options struct {
	Editor   image.Editor
	Store    history.Store
	Notifier *notify.Notifier
	Logger   *infra.Logger
	Policy   imagegen.RetryPolicy
	Sleeper  imagegen.Sleeper
	Now      func() time.Time
}

// Editor serialises state mutations; at most one generation runs at a time.
type Editor struct {
	mu        sync.RWMutex
	state     State
	lastID    int64
	busy      atomic.Bool
	generator *imagegen.Generator
	store     history.Store
	notifier  *notify.Notifier
	logger    infra.Logger
	now       func() time.Time

	// pubMu orders deliveries: a snapshot is taken and fanned out under it,
	// so the last delivery always carries the latest state.
	pubMu     sync.Mutex
	subMu     sync.Mutex
	subs      map[int]func(State)
	nextSubID int
}

// New builds an Editor and loads the persisted history once.
func New(ctx context.Context, opts Options) *Editor {
	e := &Editor{
		state:    initialState(),
		store:    opts.Store,
		notifier: opts.Notifier,
		logger:   infra.LoggerOrNop(opts.Logger),
		now:      opts.Now,
		subs:     make(map[int]func(State)),
	}
	if e.notifier == nil {
		e.notifier = notify.New()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.store == nil {
		e.store = history.NewMemoryStore()
	}
	e.generator = imagegen.NewGenerator(opts.Editor, imagegen.Options{
		Policy:    opts.Policy,
		Sleeper:   opts.Sleeper,
		Logger:    &e.logger,
		OnAttempt: e.onAttempt,
	})

	e.state.History = history.LoadOrEmpty(ctx, e.store, &e.logger)
	for _, item := range e.state.History {
		if item.ID > e.lastID {
			e.lastID = item.ID
		}
	}
	e.notifier.Subscribe(func(*notify.Notification) { e.publish() })
	return e
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() State {
	e.mu.RLock()
	s := e.state.clone()
	e.mu.RUnlock()
	if n, ok := e.notifier.Current(); ok {
		s.Notification = &n
	}
	return s
}

// Subscribe registers fn for every state change and returns the function
// that removes it. Deliveries are serialised; fn must not call back into
// methods that change the editor.
func (e *Editor) Subscribe(fn func(State)) func() {
	e.subMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn
	e.subMu.Unlock()
	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

func (e *Editor) publish() {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()

	e.subMu.Lock()
	subs := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.subMu.Unlock()
	if len(subs) == 0 {
		return
	}
	snap := e.Snapshot()
	for _, fn := range subs {
		fn(snap.clone())
	}
}

// Upload ingests a new base image. On failure the previous image is kept.
func (e *Editor) Upload(ctx context.Context, name string, size int64, r io.Reader) error {
	img, err := ingest.Ingest(ctx, name, size, r)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", name).Int64("size", size).Msg("editor: upload rejected")
		switch {
		case errors.Is(err, domain.ErrSizeLimitExceeded):
			e.notifier.Notify(MsgUploadTooLarge, notify.KindError)
		case errors.Is(err, domain.ErrUnsupportedMediaType):
			e.notifier.Notify(MsgUploadUnsupported, notify.KindError)
		default:
			e.notifier.Notify(MsgUploadReadError, notify.KindError)
		}
		return err
	}
	e.SetImage(img)
	e.logger.Info().Str("file", name).Int("bytes", len(img.Data)).Str("mime", img.MIMEType).Msg("editor: image uploaded")
	e.notifier.Notify(MsgUploadOK, notify.KindSuccess)
	return nil
}

// SetImage replaces the base image and clears any result.
func (e *Editor) SetImage(img domain.UploadedImage) {
	e.mu.Lock()
	e.state.UploadedImage = img.Clone()
	e.state.Result = domain.UploadedImage{}
	e.mu.Unlock()
	e.publish()
}

func (e *Editor) SetPrompt(prompt string) {
	e.mu.Lock()
	e.state.Prompt = prompt
	e.mu.Unlock()
	e.publish()
}

func (e *Editor) SetStyle(raw string) error {
	style, err := domain.ParseStyle(raw)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.state.Style = style
	e.mu.Unlock()
	e.publish()
	return nil
}

func (e *Editor) SetConsistency(v int) {
	e.mu.Lock()
	e.state.Consistency = domain.ClampConsistency(v)
	e.mu.Unlock()
	e.publish()
}

func (e *Editor) SetResolution(raw string) error {
	res, err := domain.ParseResolution(raw)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.state.Resolution = res
	e.mu.Unlock()
	e.publish()
	return nil
}

// OptionsUpdate carries a partial change of the editor controls. Nil fields
// are left untouched.
type OptionsUpdate struct {
	Prompt      *string `json:"prompt,omitempty"`
	Style       *string `json:"style,omitempty"`
	Consistency *int    `json:"consistency,omitempty"`
	Resolution  *string `json:"resolution,omitempty"`
}

// Apply validates every field first and then applies them together.
func (e *Editor) Apply(u OptionsUpdate) error {
	var (
		style domain.StyleTag
		res   domain.Resolution
		err   error
	)
	if u.Style != nil {
		if style, err = domain.ParseStyle(*u.Style); err != nil {
			return err
		}
	}
	if u.Resolution != nil {
		if res, err = domain.ParseResolution(*u.Resolution); err != nil {
			return err
		}
	}
	e.mu.Lock()
	if u.Prompt != nil {
		e.state.Prompt = *u.Prompt
	}
	if u.Style != nil {
		e.state.Style = style
	}
	if u.Consistency != nil {
		e.state.Consistency = domain.ClampConsistency(*u.Consistency)
	}
	if u.Resolution != nil {
		e.state.Resolution = res
	}
	e.mu.Unlock()
	e.publish()
	return nil
}

// Busy reports whether a generation is in flight.
func (e *Editor) Busy() bool {
	return e.busy.Load()
}

// Generate runs one generation request with the current controls. A second
// call while one is in flight fails with ErrGenerationInProgress.
func (e *Editor) Generate(ctx context.Context) (domain.UploadedImage, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return domain.UploadedImage{}, domain.ErrGenerationInProgress
	}
	defer e.busy.Store(false)

	e.mu.RLock()
	in := imagegen.Input{
		Prompt:      e.state.Prompt,
		Style:       e.state.Style,
		Consistency: e.state.Consistency,
		Resolution:  e.state.Resolution,
	}
	if !e.state.UploadedImage.IsZero() {
		img := e.state.UploadedImage.Clone()
		in.Image = &img
	}
	e.mu.RUnlock()

	if err := imagegen.Validate(in); err != nil {
		if errors.Is(err, domain.ErrMissingImage) {
			e.notifier.Notify(MsgMissingImage, notify.KindInfo)
		} else {
			e.notifier.Notify(MsgPromptTooShort, notify.KindInfo)
		}
		return domain.UploadedImage{}, err
	}

	e.mu.Lock()
	e.state.Loading = true
	e.state.Attempt = 1
	e.state.Result = domain.UploadedImage{}
	e.mu.Unlock()
	e.publish()

	result, err := e.generator.Generate(ctx, in)
	if err != nil {
		e.mu.Lock()
		e.state.Loading = false
		e.state.Attempt = 0
		e.mu.Unlock()
		e.notifier.Notify(failureMessage(err), notify.KindError)
		e.logger.Error().Err(err).Msg("editor: generation failed")
		return domain.UploadedImage{}, err
	}

	item := domain.HistoryItem{
		Prompt:    in.Prompt,
		Style:     string(in.Style),
		ResultURL: result.DataURI(),
		BaseImage: in.Image.DataURI(),
	}

	e.mu.Lock()
	item.ID = e.nextIDLocked()
	e.state.Result = result.Clone()
	e.state.Loading = false
	e.state.Attempt = 0
	e.state.History = history.Prepend(e.state.History, item, domain.HistoryLimit)
	toSave := append([]domain.HistoryItem(nil), e.state.History...)
	e.mu.Unlock()

	if err := e.store.Save(context.WithoutCancel(ctx), toSave); err != nil {
		e.logger.Warn().Err(err).Int64("history_id", item.ID).Msg("editor: history not persisted")
	}
	e.notifier.Notify(MsgGenerated, notify.KindSuccess)
	return result, nil
}

func failureMessage(err error) string {
	var failed *domain.GenerationFailedError
	if errors.As(err, &failed) {
		return MessageFor(failed)
	}
	return MsgGenerationFailedAt + err.Error()
}

func (e *Editor) onAttempt(a imagegen.Attempt) {
	if a.Err == nil || a.NextDelay == 0 {
		return
	}
	e.mu.Lock()
	e.state.Attempt = a.Number + 1
	e.mu.Unlock()
	e.publish()
}

func (e *Editor) nextIDLocked() int64 {
	id := e.now().UnixMilli()
	if id <= e.lastID {
		id = e.lastID + 1
	}
	e.lastID = id
	return id
}

// ReEdit loads a history item back into the editor: its base image, prompt
// and style become current and the result is cleared.
func (e *Editor) ReEdit(id int64) (domain.HistoryItem, error) {
	e.mu.RLock()
	var (
		item  domain.HistoryItem
		found bool
	)
	for _, it := range e.state.History {
		if it.ID == id {
			item, found = it, true
			break
		}
	}
	e.mu.RUnlock()
	if !found {
		return domain.HistoryItem{}, fmt.Errorf("%w: %d", domain.ErrHistoryItemNotFound, id)
	}

	base, err := domain.ParseDataURI(item.BaseImage)
	if err != nil {
		return domain.HistoryItem{}, err
	}
	if sized, err := ingest.WithDimensions(base); err == nil {
		base = sized
	} else {
		e.logger.Debug().Err(err).Int64("history_id", id).Msg("editor: restored image has no readable header")
	}
	style, err := domain.ParseStyle(item.Style)
	if err != nil {
		style = domain.DefaultStyle
	}

	e.mu.Lock()
	e.state.UploadedImage = base
	e.state.Prompt = item.Prompt
	e.state.Style = style
	e.state.Result = domain.UploadedImage{}
	e.mu.Unlock()
	e.publish()
	return item, nil
}

// History returns the in-memory list, newest first.
func (e *Editor) History() []domain.HistoryItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]domain.HistoryItem{}, e.state.History...)
}

// Result returns the most recent generated image, if any.
func (e *Editor) Result() (domain.UploadedImage, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state.Result.IsZero() {
		return domain.UploadedImage{}, false
	}
	return e.state.Result.Clone(), true
}
