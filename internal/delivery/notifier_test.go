package delivery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierSwitch_ForwardsToCurrent(t *testing.T) {
	sw := NewNotifierSwitch()

	// no target yet: dropped without panic
	sw.Notify(context.Background(), Notice{Kind: NoticeAppUnavailable})

	var first, second []Notice
	sw.Set(NotifierFunc(func(_ context.Context, n Notice) { first = append(first, n) }))
	sw.Notify(context.Background(), Notice{Kind: NoticeMissingDestination})

	sw.Set(NotifierFunc(func(_ context.Context, n Notice) { second = append(second, n) }))
	sw.Notify(context.Background(), Notice{Kind: NoticeHandoffError})

	assert.Len(t, first, 1)
	assert.Equal(t, NoticeMissingDestination, first[0].Kind)
	assert.Len(t, second, 1)
	assert.Equal(t, NoticeHandoffError, second[0].Kind)
}
