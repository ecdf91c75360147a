package utils

import (
	"context"

	"github.com/experts-ly/money_backend/appctx"
)

var (
	ContextKeyOwnerId        = appctx.ContextKeyOwnerId
	ContextKeyCorrelationId  = appctx.ContextKeyCorrelationId
	ContextKeySkipOwnerScope = appctx.ContextKeySkipOwnerScope
)

func GetOwnerIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyOwnerId)
}

func SetOwnerIdInContext(ctx context.Context, ownerId string) context.Context {
	return appctx.Set(ctx, ContextKeyOwnerId, ownerId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetSkipOwnerScopeFromContext(ctx context.Context) (bool, bool) {
	return appctx.GetBool(ctx, ContextKeySkipOwnerScope)
}

func SetSkipOwnerScopeInContext(ctx context.Context, skip bool) context.Context {
	return appctx.Set(ctx, ContextKeySkipOwnerScope, skip)
}
