// context.go propagates request-scoped event tags through context.Context.

package raven

import "context"

type tagsKey struct{}

// WithTags returns a context carrying tags that the collector merges into
// every event recorded with it. Tags already on the context are kept unless
// overridden by the new ones.
func WithTags(ctx context.Context, tags map[string]string) context.Context {
	existing, _ := TagsFromContext(ctx)
	merged := make(map[string]string, len(existing)+len(tags))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range tags {
		merged[k] = v
	}
	return context.WithValue(ctx, tagsKey{}, merged)
}

// TagsFromContext returns a copy of the tags attached to ctx.
// Returns nil and false if none are set.
func TagsFromContext(ctx context.Context) (map[string]string, bool) {
	tags, ok := ctx.Value(tagsKey{}).(map[string]string)
	if !ok || len(tags) == 0 {
		return nil, false
	}
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out, true
}
