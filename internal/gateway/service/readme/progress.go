package readme

import "context"

// Stage names a step of the generation pipeline reported to progress listeners.
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageScanning   Stage = "scanning"
	StageGenerating Stage = "generating"
	StageAssembling Stage = "assembling"
)

// ProgressFunc receives each stage as the pipeline enters it.
type ProgressFunc func(Stage)

type progressKey struct{}

// WithProgress attaches fn to ctx; Service.Generate reports stages to it.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, progressKey{}, fn)
}

// Report delivers stage to the listener attached by WithProgress, if any.
func Report(ctx context.Context, stage Stage) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok {
		fn(stage)
	}
}
