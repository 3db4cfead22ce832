package studyerr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/studyhub/internal/domain/studyerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesSentinelOfSameKind(t *testing.T) {
	err := studyerr.New(studyerr.KindGroupFull, "group %s at capacity", "g1")

	assert.ErrorIs(t, err, studyerr.ErrGroupFull)
	assert.NotErrorIs(t, err, studyerr.ErrAlreadyMember)

	wrapped := fmt.Errorf("join: %w", err)
	assert.ErrorIs(t, wrapped, studyerr.ErrGroupFull)
	assert.Equal(t, studyerr.KindGroupFull, studyerr.KindOf(wrapped))
}

func TestTransport(t *testing.T) {
	assert.NoError(t, studyerr.Transport("get group", nil))

	err := studyerr.Transport("get group", context.DeadlineExceeded)
	require.Error(t, err)
	assert.ErrorIs(t, err, studyerr.ErrTransportFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, studyerr.Retryable(err))

	// Kinded errors pass through unchanged.
	nf := studyerr.New(studyerr.KindGroupNotFound, "g1")
	assert.Same(t, nf, studyerr.Transport("get group", nf))
	assert.False(t, studyerr.Retryable(nf))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, studyerr.KindUnknown, studyerr.KindOf(errors.New("boom")))
	assert.Equal(t, studyerr.KindUnknown, studyerr.KindOf(nil))
}

func TestMessagesAreDistinct(t *testing.T) {
	kinds := []studyerr.Kind{
		studyerr.KindMalformedSchedule,
		studyerr.KindOutOfScheduleWindow,
		studyerr.KindMissingRequiredField,
		studyerr.KindAlreadyMember,
		studyerr.KindNotAMember,
		studyerr.KindGroupFull,
		studyerr.KindCreatorCannotLeave,
		studyerr.KindGroupNotFound,
		studyerr.KindTransportFailure,
		studyerr.KindNotGroupCreator,
		studyerr.KindSessionNotFound,
		studyerr.KindUnauthenticated,
	}
	seen := map[string]studyerr.Kind{}
	for _, k := range kinds {
		msg := k.Message()
		if prev, dup := seen[msg]; dup {
			t.Errorf("%s and %s share message %q", prev, k, msg)
		}
		seen[msg] = k
		assert.NotEqual(t, studyerr.KindUnknown.Message(), msg, "kind %s", k)
	}
}

func TestError_String(t *testing.T) {
	err := studyerr.MissingField("title")
	assert.Equal(t, "MissingRequiredField: title is required", err.Error())
	assert.Equal(t, "Kind(99)", studyerr.Kind(99).String())
}
