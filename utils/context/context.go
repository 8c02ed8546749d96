package context

import (
	"context"

	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
)

// WithIdentity stores the caller identity resolved from the bearer token.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	ctx = context.WithValue(ctx, constant.UserIDKey, identity.UserID)
	return context.WithValue(ctx, constant.UserRoleKey, identity.Role)
}

func GetUserID(ctx context.Context) (uint64, bool) {
	v := ctx.Value(constant.UserIDKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func GetRole(ctx context.Context) (constant.Role, bool) {
	v := ctx.Value(constant.UserRoleKey)
	if v == nil {
		return "", false
	}
	role, ok := v.(constant.Role)
	return role, ok
}

func GetIdentity(ctx context.Context) (model.Identity, bool) {
	id, ok := GetUserID(ctx)
	if !ok {
		return model.Identity{}, false
	}
	role, ok := GetRole(ctx)
	if !ok {
		return model.Identity{}, false
	}
	return model.Identity{UserID: id, Role: role}, true
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constant.RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(constant.RequestIDKey).(string)
	return v
}
