package requestdata

import "context"

type contextKey struct{}

var requestDataKey = contextKey{}

type RequestData struct {
	TokenString string
	IsAdmin     bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
