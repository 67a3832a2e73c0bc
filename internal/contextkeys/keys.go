package contextkeys

import (
	"context"

	"github.com/BatmanBruc/bat-bot-checkin/types"
)

type identityKey struct{}
type langKey struct{}
type requestIDKey struct{}

func WithIdentity(ctx context.Context, id types.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) (types.Identity, bool) {
	v := ctx.Value(identityKey{})
	if v == nil {
		return types.Identity{}, false
	}
	return v.(types.Identity), true
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func GetLang(ctx context.Context) (string, bool) {
	v := ctx.Value(langKey{})
	if v == nil {
		return "", false
	}
	return v.(string), true
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey{})
	if v == nil {
		return "", false
	}
	return v.(string), true
}
