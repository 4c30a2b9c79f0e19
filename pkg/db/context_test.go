package db

import (
	"context"
	"testing"
)

func TestFromContextNil(t *testing.T) {
	if db := FromContext(context.TODO()); db != nil {
		t.Errorf("FromContext() => %v, want nil", db)
	}
}

func TestFromContextRoundtrip(t *testing.T) {
	d := &DB{}
	ctx := WithContext(context.TODO(), d)
	if got := FromContext(ctx); got != d {
		t.Errorf("FromContext() => %v, want %v", got, d)
	}
}
