package feedback_test

import (
	"context"
	"testing"

	"github.com/vango-dev/feedback/pkg/feedback"
)

func TestContextRoundTrip(t *testing.T) {
	mgr := feedback.NewManager(feedback.DefaultConfig())
	defer mgr.Close()

	ctx := feedback.NewContext(context.Background(), mgr)

	got, ok := feedback.FromContext(ctx)
	if !ok || got != mgr {
		t.Fatal("FromContext did not return the injected manager")
	}
	if feedback.MustFromContext(ctx) != mgr {
		t.Fatal("MustFromContext did not return the injected manager")
	}
}

func TestFromContextAbsent(t *testing.T) {
	if _, ok := feedback.FromContext(context.Background()); ok {
		t.Fatal("FromContext reported a manager on a bare context")
	}
}

func TestMustFromContextPanicsOutsideProviderScope(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustFromContext did not panic outside provider scope")
		}
	}()
	feedback.MustFromContext(context.Background())
}
