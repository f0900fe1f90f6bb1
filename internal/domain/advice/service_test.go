package advice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeAdvisor struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeAdvisor) Advise(ctx context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	if _, ok := ctx.Deadline(); !ok {
		return "", context.DeadlineExceeded
	}
	return f.reply, f.err
}

func TestServiceAdvise(t *testing.T) {
	fake := &fakeAdvisor{reply: "⚠️ 휴게시간을 명시하세요"}
	svc := NewService(fake, time.Minute)
	result, err := svc.Advise(context.Background(), sampleContract())
	require.NoError(t, err)
	require.Equal(t, "⚠️ 휴게시간을 명시하세요", result.Advice)
	require.Equal(t, "c-1", result.ContractID)
	require.Equal(t, SystemPrompt, fake.system)
	require.True(t, strings.HasPrefix(fake.user, "다음 근로계약서를 분석하고 법적 조언을 해주세요:\n근로계약서 정보:"))
}

func TestServiceFallsBackOnEmptyReply(t *testing.T) {
	svc := NewService(&fakeAdvisor{reply: "  "}, time.Minute)
	result, err := svc.Advise(context.Background(), sampleContract())
	require.NoError(t, err)
	require.Equal(t, FallbackAdvice, result.Advice)
}

func TestServicePropagatesProviderErrors(t *testing.T) {
	svc := NewService(&fakeAdvisor{err: ErrRateLimited}, time.Minute)
	_, err := svc.Advise(context.Background(), sampleContract())
	require.ErrorIs(t, err, ErrRateLimited)

	_, err = NewService(nil, 0).Advise(context.Background(), sampleContract())
	require.ErrorIs(t, err, ErrNotConfigured)
}
