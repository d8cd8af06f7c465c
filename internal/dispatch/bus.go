package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/uxpages/internal/pkg/errors"
)

type Kind int

const (
	KindQuery Kind = iota + 1
	KindNovelty
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindNovelty:
		return "novelty"
	}
	return "unknown"
}

type HandlerFunc func(ctx context.Context, msg Message) (interface{}, error)

// ErrUnknownMessage is returned for a type that has no handler of the
// requested kind.
var ErrUnknownMessage = fmt.Errorf("unknown message type: %w", appErr.ErrInvalid)

// Bus is an in-process Dispatcher routing messages by type. Handlers are
// registered during wiring; the bus is read-only afterwards.
type Bus struct {
	handlers map[Kind]map[string]HandlerFunc
}

func NewBus() *Bus {
	return &Bus{handlers: map[Kind]map[string]HandlerFunc{
		KindQuery:   {},
		KindNovelty: {},
	}}
}

func (b *Bus) RegisterQuery(typ string, fn HandlerFunc) {
	b.register(KindQuery, typ, fn)
}

func (b *Bus) RegisterNovelty(typ string, fn HandlerFunc) {
	b.register(KindNovelty, typ, fn)
}

func (b *Bus) register(kind Kind, typ string, fn HandlerFunc) {
	if typ == "" || fn == nil {
		panic("dispatch: empty registration")
	}
	if _, ok := b.handlers[kind][typ]; ok {
		panic(fmt.Sprintf("dispatch: %s handler %q registered twice", kind, typ))
	}
	b.handlers[kind][typ] = fn
}

func (b *Bus) Query(ctx context.Context, msg Message) (interface{}, error) {
	return b.dispatch(ctx, KindQuery, msg)
}

func (b *Bus) Novelty(ctx context.Context, msg Message) (interface{}, error) {
	return b.dispatch(ctx, KindNovelty, msg)
}

func (b *Bus) dispatch(ctx context.Context, kind Kind, msg Message) (result interface{}, err error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("kind", kind.String()),
		zap.String("type", msg.Type),
		zap.String("user_id", msg.User),
	)
	fn, ok := b.handlers[kind][msg.Type]
	if !ok {
		logger.Warn("dispatch rejected: no handler")
		return nil, fmt.Errorf("%s %q: %w", kind, msg.Type, ErrUnknownMessage)
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("dispatch panic", zap.Any("panic", r), zap.Stack("stack"))
			result, err = nil, fmt.Errorf("%s %q panicked: %v: %w", kind, msg.Type, r, appErr.ErrInternal)
		}
		elapsed := time.Since(start)
		if err != nil {
			logger.Debug("dispatch failed", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Debug("dispatch finished", zap.Duration("duration", elapsed))
	}()
	return fn(ctx, msg)
}
