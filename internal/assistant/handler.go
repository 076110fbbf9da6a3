// Package assistant turns one inbound chat message into at most one domain
// operation and a localized reply.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fintrack-go/internal/domain/apperror"
	"fintrack-go/internal/domain/budgets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/goals"
	"fintrack-go/internal/domain/identity"
	"fintrack-go/internal/domain/inbox"
	"fintrack-go/internal/domain/intent"
	"fintrack-go/internal/domain/materializer"
	"fintrack-go/internal/domain/preferences"
	"fintrack-go/pkg/logger"
)

type Services struct {
	Identity     *identity.Service
	Inbox        *inbox.Service
	Preferences  *preferences.Service
	Categories   *categories.Service
	Materializer *materializer.Service
	Budgets      *budgets.Service
	Goals        *goals.Service
}

type Handler struct {
	services      Services
	understanding intent.Client
	log           logger.Logger
	locks         *userLocks
	defaultLang   string
	now           func() time.Time
}

func NewHandler(services Services, understanding intent.Client, defaultLang string, log logger.Logger) *Handler {
	return &Handler{
		services:      services,
		understanding: understanding,
		log:           log,
		locks:         newUserLocks(),
		defaultLang:   normalizeLang(defaultLang),
		now:           time.Now,
	}
}

// session is everything a domain handler needs about the sender.
type session struct {
	userID string
	prefs  preferences.Preferences
	loc    *time.Location
	l      localizer
	msg    Message
	route  Route
}

// Handle processes one message end to end. It never returns an error: every
// failure becomes an unsuccessful Reply.
func (h *Handler) Handle(ctx context.Context, msg Message) Reply {
	if code, ok := linkCode(msg.Text); ok {
		return h.link(ctx, msg, code)
	}

	userID, linked, err := h.services.Identity.ResolveUser(ctx, msg.ChannelIdentity)
	if err != nil {
		return h.fail(newLocalizer(h.defaultLang), "", err, "channel", msg.ChannelIdentity)
	}
	if !linked {
		l := newLocalizer(h.defaultLang)
		return Reply{
			Kind:    apperror.KindValidation,
			Domain:  DomainLink,
			Message: l.text("unlinked"),
			Example: l.example(DomainLink),
		}
	}

	claim, err := h.services.Inbox.Begin(ctx, msg.ID, msg.ChannelIdentity, []byte(msg.Text), msg.Media)
	if err != nil {
		l := newLocalizer(h.defaultLang)
		if errors.Is(err, inbox.ErrInProgress) {
			return Reply{Kind: apperror.KindValidation, Message: l.text("in_progress")}
		}
		return h.fail(l, "", err, "user_id", userID, "message_id", msg.ID)
	}
	if claim.Duplicate {
		var stored Reply
		if err := json.Unmarshal(claim.Reply, &stored); err != nil {
			h.log.InternalError("assistant.handle: stored reply unreadable", err, "user_id", userID, "message_id", msg.ID)
			return Reply{Kind: apperror.KindInternal, Message: newLocalizer(h.defaultLang).text("in_progress")}
		}
		return stored
	}

	unlock := h.locks.lock(userID)
	defer unlock()

	reply := h.process(ctx, userID, msg)
	if transient(reply.Kind) {
		if err := h.services.Inbox.Release(ctx, msg.ID); err != nil {
			h.log.InternalError("assistant.handle: release claim failed", err, "user_id", userID, "message_id", msg.ID)
		}
		return reply
	}
	if err := h.services.Inbox.Complete(ctx, msg.ID, reply); err != nil {
		h.log.InternalError("assistant.handle: store reply failed", err, "user_id", userID, "message_id", msg.ID)
	}
	return reply
}

func (h *Handler) process(ctx context.Context, userID string, msg Message) Reply {
	prefs, err := h.services.Preferences.Get(ctx, userID)
	if err != nil {
		return h.fail(newLocalizer(h.defaultLang), "", err, "user_id", userID)
	}
	s := session{
		userID: userID,
		prefs:  prefs,
		loc:    prefs.Location(),
		l:      newLocalizer(prefs.Language),
		msg:    msg,
		route:  Classify(msg.Text, msg.MimeType),
	}

	if err := h.services.Categories.EnsureDefaults(ctx, userID); err != nil {
		return h.fail(s.l, s.route.Domain, err, "user_id", userID)
	}
	req, err := h.request(ctx, s)
	if err != nil {
		return h.fail(s.l, s.route.Domain, err, "user_id", userID)
	}

	var reply Reply
	switch s.route.Domain {
	case DomainBudget:
		reply, err = h.budget(ctx, s, req)
	case DomainSavings:
		reply, err = h.savings(ctx, s, req)
	case DomainCategory:
		reply, err = h.category(ctx, s, req)
	case DomainReceipt:
		reply, err = h.receipt(ctx, s, req)
	default:
		reply, err = h.transaction(ctx, s, req)
	}
	if err != nil {
		return h.fail(s.l, s.route.Domain, err, "user_id", userID, "domain", s.route.Domain)
	}
	reply.Success = true
	reply.Domain = s.route.Domain
	return reply
}

// request builds the Understanding Service call with the full user context.
func (h *Handler) request(ctx context.Context, s session) (intent.Request, error) {
	cats, err := h.services.Categories.List(ctx, s.userID)
	if err != nil {
		return intent.Request{}, err
	}
	refs := make([]intent.CategoryRef, 0, len(cats))
	for _, c := range cats {
		ref := intent.CategoryRef{Name: c.Name, Kind: c.Kind}
		if c.Icon != nil {
			ref.Icon = *c.Icon
		}
		if c.Color != nil {
			ref.Color = *c.Color
		}
		refs = append(refs, ref)
	}

	active, err := h.services.Goals.List(ctx, s.userID, false)
	if err != nil {
		return intent.Request{}, err
	}
	goalNames := make([]string, 0, len(active))
	for _, g := range active {
		goalNames = append(goalNames, g.Name)
	}

	return intent.Request{
		Input: intent.Input{
			Text:     strings.TrimSpace(s.msg.Text),
			Media:    s.msg.Media,
			MimeType: s.msg.MimeType,
			Channel:  s.route.Channel,
		},
		Context: intent.Context{
			Categories:     refs,
			Goals:          goalNames,
			Language:       s.l.lang,
			Currency:       s.prefs.DefaultCurrency,
			AutoCategorize: s.prefs.AutoCategorize,
			Timezone:       s.loc.String(),
			Now:            h.now().In(s.loc),
		},
	}, nil
}

func (h *Handler) link(ctx context.Context, msg Message, code string) Reply {
	l := newLocalizer(h.defaultLang)
	link, err := h.services.Identity.Link(ctx, msg.ChannelIdentity, code)
	if err != nil {
		return h.fail(l, DomainLink, err, "channel", msg.ChannelIdentity)
	}
	if prefs, err := h.services.Preferences.Get(ctx, link.UserID); err == nil {
		l = newLocalizer(prefs.Language)
	}
	reply := Reply{Success: true, Domain: DomainLink, Message: l.text("linked")}
	reply.effect(EffectChannelLinked, link.UserID)
	return reply
}

// fail converts err into a localized reply. Classified errors are expected
// user outcomes; anything else is logged as internal and hidden.
func (h *Handler) fail(l localizer, domain Domain, err error, args ...any) Reply {
	kind := apperror.KindOf(err)
	reply := Reply{
		Kind:        kind,
		Domain:      domain,
		Example:     l.example(domain),
		Suggestions: apperror.SuggestionsOf(err),
	}

	switch kind {
	case apperror.KindInternal:
		h.log.InternalError("assistant.handle: unexpected failure", err, args...)
		reply.Message = l.kind(kind)
	case apperror.KindValidation, apperror.KindInsufficientFunds:
		h.log.BusinessError("assistant.handle: rejected", err, args...)
		reply.Message = l.kind(kind, detail(err))
	case apperror.KindUnavailable:
		h.log.InternalError("assistant.handle: understanding service failed", err, args...)
		reply.Message = l.kind(kind)
	default:
		h.log.BusinessError("assistant.handle: rejected", err, args...)
		reply.Message = l.kind(kind)
	}

	if len(reply.Suggestions) > 0 {
		reply.Message += "\n" + l.text("suggestions", strings.Join(reply.Suggestions, ", "))
	}
	return reply
}

// transient failures leave no mutation behind and must not be replayed as the
// final answer for their message id.
func transient(kind apperror.Kind) bool {
	return kind == apperror.KindUnavailable || kind == apperror.KindInternal
}

func detail(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
