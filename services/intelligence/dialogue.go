package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"slotbook/database/repository"
	"slotbook/models"
	"slotbook/services/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Turn is one user message to the assistant.
type Turn struct {
	SessionID string
	Text      string
	Identity  models.Identity
}

// Engine drives the multi-turn booking conversation.
type Engine struct {
	Sessions   SessionStore
	Locker     *KeyedLocker
	Bookings   booking.BookingService
	Catalog    repository.CatalogRepository
	Extractor  IntentExtractor
	Classifier TopicClassifier
	Phraser    Phraser
	FAQ        FAQResponder
	Logger     *zap.Logger
	Location   *time.Location
	Now        func() time.Time
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().In(e.location())
	}
	return e.Now().In(e.location())
}

func (e *Engine) today() string {
	return e.now().Format("2006-01-02")
}

// turnState is the working copy of one turn.
type turnState struct {
	sess    *models.DialogueSession
	turn    Turn
	expired bool
}

// Handle runs one assistant turn. Infrastructure failures come back as an apology
// with the session left as it was before the turn.
func (e *Engine) Handle(ctx context.Context, turn Turn) (*models.AIResponse, error) {
	turn.Text = strings.TrimSpace(turn.Text)
	if turn.Text == "" {
		return nil, models.NewValidationError("message", "message is required")
	}

	if turn.SessionID != "" {
		unlock := e.Locker.Lock(turn.SessionID)
		defer unlock()
	}

	st := &turnState{turn: turn}
	if turn.SessionID != "" {
		sess, err := e.Sessions.Get(ctx, turn.SessionID)
		switch {
		case err == nil:
			st.sess = sess
		case errors.Is(err, ErrSessionExpired):
			st.expired = true
		case errors.Is(err, ErrSessionNotFound):
		default:
			e.Logger.Error("Failed to load dialogue session", zap.String("sessionID", turn.SessionID), zap.Error(err))
			return e.apologize(turn.SessionID, ""), nil
		}
	}

	if sess := st.sess; sess != nil && inSlotPhase(sess.Phase) && sess.Offers(models.Slot(turn.Text)) {
		return e.pickSlot(ctx, st, models.Slot(turn.Text))
	}

	topic, extracted := e.understand(ctx, turn.Text)

	signal := topic == models.TopicBooking || hasBookingKeyword(turn.Text) || extracted.HasAny() ||
		(st.sess != nil && e.isPhaseReply(st.sess, turn.Text))

	if !signal {
		if st.sess == nil {
			resp := e.answerFAQ(ctx, turn.Text)
			if st.expired {
				resp.Phase = models.PhaseExpired
			}
			return resp, nil
		}
		// Only the slot phases have an answer of their own to wait for; anywhere
		// else a message without booking signal abandons the conversation.
		if topic == models.TopicFAQ || !inSlotPhase(st.sess.Phase) {
			if err := e.Sessions.Clear(ctx, st.sess.ID); err != nil {
				e.Logger.Warn("Failed to clear abandoned session", zap.String("sessionID", st.sess.ID), zap.Error(err))
			}
			resp := e.answerFAQ(ctx, turn.Text)
			resp.Phase = models.PhaseCancelled
			return resp, nil
		}
		return e.repeatOffer(ctx, st.sess, "")
	}

	if st.sess == nil {
		id := turn.SessionID
		if id == "" {
			id = uuid.New().String()
		}
		sess, err := e.Sessions.Create(ctx, id)
		if err != nil {
			e.Logger.Error("Failed to create dialogue session", zap.Error(err))
			return e.apologize("", ""), nil
		}
		st.sess = sess
	}

	return e.advance(ctx, st, extracted)
}

func inSlotPhase(p models.DialoguePhase) bool {
	return p == models.PhasePresentingSlots || p == models.PhaseAwaitingConfirmation
}

// understand runs the classifier and extractor side by side. Either one failing
// degrades to the local rules rather than failing the turn.
func (e *Engine) understand(ctx context.Context, text string) (models.Topic, models.ExtractedIntent) {
	var (
		topic     models.Topic
		extracted models.ExtractedIntent
	)
	today := e.today()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := e.Classifier.Classify(gctx, text)
		if err != nil {
			e.Logger.Warn("Classifier failed, using keyword rules", zap.Error(err))
			t = keywordTopic(text)
		}
		topic = t
		return nil
	})
	g.Go(func() error {
		x, err := e.Extractor.Extract(gctx, text, today)
		if err != nil {
			e.Logger.Warn("Intent extraction failed", zap.Error(err))
			x = models.ExtractedIntent{}
		}
		extracted = x
		return nil
	})
	_ = g.Wait()
	return topic, extracted
}

// isPhaseReply reports whether text is a sensible answer to the question the
// session is currently asking.
func (e *Engine) isPhaseReply(sess *models.DialogueSession, text string) bool {
	switch sess.Phase {
	case models.PhasePresentingSlots:
		if _, ok := matchOffered(sess, text); ok {
			return true
		}
		return isAffirmative(text) || isNegative(text)
	case models.PhaseAwaitingConfirmation:
		_, ok := matchOffered(sess, text)
		return ok || isAffirmative(text) || isNegative(text)
	}
	return false
}

// matchOffered accepts an offered slot written exactly or as a bare time.
func matchOffered(sess *models.DialogueSession, text string) (models.Slot, bool) {
	if sess.Offers(models.Slot(strings.TrimSpace(text))) {
		return models.Slot(strings.TrimSpace(text)), true
	}
	minutes, ok := booking.ParseClock(text)
	if !ok {
		return "", false
	}
	slot := models.SlotFromMinutes(minutes)
	return slot, sess.Offers(slot)
}

// advance merges what was extracted and moves the conversation forward.
func (e *Engine) advance(ctx context.Context, st *turnState, x models.ExtractedIntent) (*models.AIResponse, error) {
	sess := st.sess
	services, err := e.Catalog.ListActive(ctx)
	if err != nil {
		e.Logger.Error("Failed to load service catalog", zap.Error(err))
		return e.apologize(st.turn.SessionID, ""), nil
	}

	var prefix string
	changed := false

	if x.Service != nil {
		if svc, ok := MatchService(*x.Service, services); ok {
			if svc.Name != sess.Service {
				sess.Service = svc.Name
				changed = true
			}
		} else {
			prefix = unknownService(*x.Service, services)
		}
	}
	if x.Date != nil {
		date, err := e.resolveDate(*x.Date)
		if err != nil {
			prefix = withPrefix(prefix, dateProblem(err))
		} else if date != sess.Date {
			sess.Date = date
			changed = true
		}
	}
	if x.TimeWindow != nil && *x.TimeWindow != sess.TimeWindow {
		sess.TimeWindow = *x.TimeWindow
		changed = true
	}
	if changed {
		sess.InvalidateSlots()
	}

	switch {
	case sess.Service == "":
		sess.Phase = models.PhaseCollectingService
		if prefix != "" {
			return e.save(ctx, sess, prefix+" Which one would you like?")
		}
		return e.save(ctx, sess, askService(services))
	case sess.Date == "":
		sess.Phase = models.PhaseCollectingDate
		return e.save(ctx, sess, withPrefix(prefix, askDate(sess.Service)))
	case sess.TimeWindow == "":
		sess.Phase = models.PhaseCollectingWindow
		return e.save(ctx, sess, withPrefix(prefix, askWindow(sess.Service, sess.Date)))
	}

	if len(sess.AvailableSlots) == 0 {
		return e.offerSlots(ctx, sess, prefix)
	}

	text := st.turn.Text
	switch sess.Phase {
	case models.PhaseAwaitingConfirmation:
		return e.handleConfirmation(ctx, st)
	case models.PhasePresentingSlots:
		if slot, ok := matchOffered(sess, text); ok {
			return e.pickSlot(ctx, st, slot)
		}
		if len(sess.AvailableSlots) == 1 && isAffirmative(text) {
			sess.SelectedSlot = sess.AvailableSlots[0]
			return e.confirm(ctx, st)
		}
		if isNegative(text) {
			return e.repeatOffer(ctx, sess, withPrefix(prefix, anotherDayPrompt()))
		}
	}
	return e.repeatOffer(ctx, sess, prefix)
}

// offerSlots computes candidates for the session and presents them.
func (e *Engine) offerSlots(ctx context.Context, sess *models.DialogueSession, prefix string) (*models.AIResponse, error) {
	candidates := booking.FilterSlots(booking.DefaultCatalog, sess.TimeWindow)
	open, err := e.Bookings.AvailableSlots(ctx, sess.Service, sess.Date, candidates)
	if err != nil {
		e.Logger.Error("Failed to compute availability", zap.String("sessionID", sess.ID), zap.Error(err))
		return e.apologize(sess.ID, ""), nil
	}
	sess.AvailableSlots = open
	sess.SlotsComputed = true
	sess.SelectedSlot = ""

	if len(open) == 0 {
		sess.Phase = models.PhaseCollectingDate
		return e.save(ctx, sess, withPrefix(prefix, noAvailability(sess)))
	}
	sess.Phase = models.PhasePresentingSlots
	return e.repeatOffer(ctx, sess, prefix)
}

func (e *Engine) repeatOffer(ctx context.Context, sess *models.DialogueSession, prefix string) (*models.AIResponse, error) {
	if sess.Phase == models.PhaseAwaitingConfirmation {
		return e.save(ctx, sess, withPrefix(prefix, confirmReprompt(sess)))
	}
	if len(sess.AvailableSlots) == 1 {
		return e.save(ctx, sess, withPrefix(prefix, singleOffer(sess)))
	}
	msg, err := e.Phraser.PhraseSlots(ctx, sess.Service, sess.Date, sess.AvailableSlots)
	if err != nil {
		e.Logger.Warn("Phraser failed, using template", zap.Error(err))
		msg, _ = TemplatePhraser{}.PhraseSlots(ctx, sess.Service, sess.Date, sess.AvailableSlots)
	}
	return e.save(ctx, sess, withPrefix(prefix, msg))
}

func (e *Engine) pickSlot(ctx context.Context, st *turnState, slot models.Slot) (*models.AIResponse, error) {
	sess := st.sess
	if sess.Phase == models.PhaseAwaitingConfirmation && sess.SelectedSlot == slot {
		return e.save(ctx, sess, confirmReprompt(sess))
	}
	sess.SelectedSlot = slot
	sess.Phase = models.PhaseAwaitingConfirmation
	return e.save(ctx, sess, confirmPrompt(sess))
}

func (e *Engine) handleConfirmation(ctx context.Context, st *turnState) (*models.AIResponse, error) {
	sess := st.sess
	text := st.turn.Text
	switch {
	case isAffirmative(text):
		return e.confirm(ctx, st)
	case isNegative(text):
		sess.SelectedSlot = ""
		sess.Phase = models.PhasePresentingSlots
		return e.repeatOffer(ctx, sess, "No problem.")
	}
	if slot, ok := matchOffered(sess, text); ok {
		return e.pickSlot(ctx, st, slot)
	}
	return e.save(ctx, sess, confirmReprompt(sess))
}

// confirm attempts the reservation for the selected slot.
func (e *Engine) confirm(ctx context.Context, st *turnState) (*models.AIResponse, error) {
	sess := st.sess
	sess.Phase = models.PhaseAwaitingConfirmation
	if !st.turn.Identity.Authenticated() {
		return e.save(ctx, sess, loginPrompt(sess))
	}

	b, err := e.Bookings.Reserve(ctx, models.ReservationRequest{
		UserID:  st.turn.Identity.UserID,
		Service: sess.Service,
		Date:    sess.Date,
		Slot:    sess.SelectedSlot,
	})

	var (
		ce *models.ConflictError
		ve *models.ValidationError
	)
	switch {
	case err == nil:
		if err := e.Sessions.Clear(ctx, sess.ID); err != nil {
			e.Logger.Warn("Failed to clear finished session", zap.String("sessionID", sess.ID), zap.Error(err))
		}
		return &models.AIResponse{
			Intent:  models.IntentBooking,
			Message: bookedMessage(b),
			Phase:   models.PhaseBooked,
			Booking: b,
		}, nil

	case errors.As(err, &ce):
		e.Logger.Info("Reservation conflict in dialogue", zap.String("sessionID", sess.ID), zap.String("kind", string(ce.Kind)))
		return e.reoffer(ctx, sess, conflictApology(ce), func(s models.Slot) bool {
			return ce.Kind == models.ConflictUserDoubleBooked && s == ce.Slot
		})

	case errors.As(err, &ve):
		return e.reoffer(ctx, sess, "Sorry, that time can no longer be booked.", nil)
	}

	e.Logger.Error("Reservation failed", zap.String("sessionID", sess.ID), zap.Error(err))
	return e.apologize(sess.ID, models.PhaseAwaitingConfirmation), nil
}

// reoffer recomputes the candidates after a failed reservation, optionally dropping
// slots the user cannot take, and presents what is left.
func (e *Engine) reoffer(ctx context.Context, sess *models.DialogueSession, prefix string, drop func(models.Slot) bool) (*models.AIResponse, error) {
	sess.InvalidateSlots()
	candidates := booking.FilterSlots(booking.DefaultCatalog, sess.TimeWindow)
	open, err := e.Bookings.AvailableSlots(ctx, sess.Service, sess.Date, candidates)
	if err != nil {
		e.Logger.Error("Failed to recompute availability", zap.String("sessionID", sess.ID), zap.Error(err))
		return e.apologize(sess.ID, ""), nil
	}
	kept := open[:0]
	for _, s := range open {
		if drop == nil || !drop(s) {
			kept = append(kept, s)
		}
	}
	sess.AvailableSlots = kept
	sess.SlotsComputed = true

	if len(kept) == 0 {
		sess.Phase = models.PhaseCollectingDate
		return e.save(ctx, sess, withPrefix(prefix, noAvailability(sess)))
	}
	sess.Phase = models.PhasePresentingSlots
	return e.repeatOffer(ctx, sess, prefix)
}

// save persists the session and builds the reply for it.
func (e *Engine) save(ctx context.Context, sess *models.DialogueSession, msg string) (*models.AIResponse, error) {
	if err := e.Sessions.Touch(ctx, sess); err != nil {
		e.Logger.Error("Failed to save dialogue session", zap.String("sessionID", sess.ID), zap.Error(err))
		return e.apologize(sess.ID, ""), nil
	}
	resp := &models.AIResponse{
		Intent:    models.IntentBooking,
		Message:   msg,
		SessionID: sess.ID,
		Phase:     sess.Phase,
	}
	if inSlotPhase(sess.Phase) {
		resp.AvailableSlots = append([]models.Slot(nil), sess.AvailableSlots...)
	}
	return resp, nil
}

func (e *Engine) answerFAQ(ctx context.Context, text string) *models.AIResponse {
	answer, err := e.FAQ.Answer(ctx, text)
	if err != nil {
		e.Logger.Warn("FAQ responder failed", zap.Error(err))
		answer = apology
	}
	return &models.AIResponse{Intent: string(models.TopicFAQ), Message: answer}
}

func (e *Engine) apologize(sessionID string, phase models.DialoguePhase) *models.AIResponse {
	return &models.AIResponse{
		Intent:    models.IntentBooking,
		Message:   apology,
		SessionID: sessionID,
		Phase:     phase,
	}
}

// resolveDate turns today/tomorrow or an ISO date into YYYY-MM-DD, rejecting past days.
func (e *Engine) resolveDate(raw string) (string, error) {
	now := e.now()
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "today":
		return now.Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), e.location())
	if err != nil {
		return "", models.NewValidationError("date", "bad date format")
	}
	if day.Format("2006-01-02") < now.Format("2006-01-02") {
		return "", models.NewValidationError("date", "date in the past")
	}
	return day.Format("2006-01-02"), nil
}

func dateProblem(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) && ve.Message == "date in the past" {
		return "That date has already passed."
	}
	return "Sorry, I didn't understand that date."
}
